package provider

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	textJSON  = []byte(`{"type":"text"}`)
	imageJSON = []byte(`{"type":"image"}`)
)

// Fragment is a unit of produced output.
type Fragment interface {
	fragment()
}

// TextDelta is an incremental piece of a streamed chat completion.
type TextDelta struct {
	RunID     uuid.UUID       `json:"run_id"`
	Model     string          `json:"model"`
	Content   string          `json:"content"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

func (TextDelta) fragment() {}

// ImageResult is the terminal fragment of an image generation.
type ImageResult struct {
	RunID       uuid.UUID       `json:"run_id"`
	Model       string          `json:"model"`
	URL         string          `json:"url"`
	Prompt      string          `json:"prompt"`
	ContentType string          `json:"content_type,omitempty"`
	Timestamp   strfmt.DateTime `json:"timestamp,omitempty"`
}

func (ImageResult) fragment() {}

// UnmarshalFragment decodes either fragment kind based on its "type" field.
func UnmarshalFragment(data []byte) (Fragment, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json: %s", data)
	}

	switch tpe := gjson.GetBytes(data, "type").String(); tpe {
	case "text":
		var td TextDelta
		if err := td.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return td, nil
	case "image":
		var ir ImageResult
		if err := ir.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return ir, nil
	default:
		return nil, fmt.Errorf("unknown fragment type %q", tpe)
	}
}

// MarshalJSON implements custom JSON marshaling for TextDelta
func (t TextDelta) MarshalJSON() ([]byte, error) {
	result, err := setCommon(textJSON, t.RunID, t.Model, t.Timestamp)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(result, "content", t.Content)
}

// UnmarshalJSON implements custom JSON unmarshaling for TextDelta
func (t *TextDelta) UnmarshalJSON(data []byte) error {
	if err := checkType(data, "text"); err != nil {
		return err
	}
	if err := getCommon(data, &t.RunID, &t.Model, &t.Timestamp); err != nil {
		return err
	}

	content := gjson.GetBytes(data, "content")
	if !content.Exists() {
		return fmt.Errorf("missing required field 'content'")
	}
	t.Content = content.String()
	return nil
}

// MarshalJSON implements custom JSON marshaling for ImageResult
func (i ImageResult) MarshalJSON() ([]byte, error) {
	result, err := setCommon(imageJSON, i.RunID, i.Model, i.Timestamp)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "url", i.URL)
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "prompt", i.Prompt)
	if err != nil {
		return nil, err
	}

	if i.ContentType != "" {
		result, err = sjson.SetBytes(result, "content_type", i.ContentType)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for ImageResult
func (i *ImageResult) UnmarshalJSON(data []byte) error {
	if err := checkType(data, "image"); err != nil {
		return err
	}
	if err := getCommon(data, &i.RunID, &i.Model, &i.Timestamp); err != nil {
		return err
	}

	url := gjson.GetBytes(data, "url")
	if !url.Exists() {
		return fmt.Errorf("missing required field 'url'")
	}
	i.URL = url.String()
	i.Prompt = gjson.GetBytes(data, "prompt").String()
	i.ContentType = gjson.GetBytes(data, "content_type").String()
	return nil
}

func setCommon(base []byte, runID uuid.UUID, model string, ts strfmt.DateTime) ([]byte, error) {
	result, err := sjson.SetBytes(base, "run_id", runID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "model", model)
	if err != nil {
		return nil, err
	}

	if !ts.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", ts.String())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func checkType(data []byte, want string) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != want {
		return fmt.Errorf("missing or invalid type, expected '%s'", want)
	}
	return nil
}

func getCommon(data []byte, runID *uuid.UUID, model *string, ts *strfmt.DateTime) error {
	rid := gjson.GetBytes(data, "run_id")
	if !rid.Exists() {
		return fmt.Errorf("missing required field 'run_id'")
	}
	if err := runID.UnmarshalText([]byte(rid.String())); err != nil {
		return fmt.Errorf("invalid run_id: %w", err)
	}

	*model = gjson.GetBytes(data, "model").String()

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := ts.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}
	return nil
}
