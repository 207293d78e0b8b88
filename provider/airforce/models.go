package airforce

import (
	"slices"

	"github.com/casualjim/hangar/internal/registry"
	"github.com/casualjim/hangar/provider"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "llama-3-70b-chat"

var textModels = []string{
	// Open source models
	"llama-2-13b-chat",
	"llama-3-70b-chat",
	"llama-3-70b-chat-turbo",
	"llama-3-70b-chat-lite",
	"llama-3-8b-chat",
	"llama-3-8b-chat-turbo",
	"llama-3-8b-chat-lite",
	"llama-3.1-405b-turbo",
	"llama-3.1-70b-turbo",
	"llama-3.1-8b-turbo",
	"LlamaGuard-2-8b",
	"Llama-Guard-7b",
	"Meta-Llama-Guard-3-8B",
	"Mixtral-8x7B-Instruct-v0.1",
	"Mixtral-8x22B-Instruct-v0.1",
	"Mistral-7B-Instruct-v0.1",
	"Mistral-7B-Instruct-v0.2",
	"Mistral-7B-Instruct-v0.3",
	"Qwen1.5-72B-Chat",
	"Qwen1.5-110B-Chat",
	"Qwen2-72B-Instruct",
	"gemma-2b-it",
	"gemma-2-9b-it",
	"gemma-2-27b-it",
	"dbrx-instruct",
	"deepseek-llm-67b-chat",
	"Nous-Hermes-2-Mixtral-8x7B-DPO",
	"Nous-Hermes-2-Yi-34B",
	"WizardLM-2-8x22B",
	"SOLAR-10.7B-Instruct-v1.0",
	"StripedHyena-Nous-7B",
	"sparkdesk",

	// Other models
	"chatgpt-4o-latest",
	"gpt-4",
	"gpt-4-turbo",
	"gpt-4o-mini-2024-07-18",
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-3.5-turbo",
	"gpt-3.5-turbo-0125",
	"gpt-3.5-turbo-1106",
	"gpt-3.5-turbo-16k",
	"gpt-3.5-turbo-0613",
	"gpt-3.5-turbo-16k-0613",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

var imageModels = []string{
	"flux",
	"flux-realism",
	"flux-anime",
	"flux-3d",
	"flux-disney",
	"flux-pixel",
	"flux-4o",
	"any-dark",
	"dall-e-3",
}

// aliasDeclarations is kept exactly as upstream publishes it. Some aliases are declared
// more than once and the last declaration wins; it is unknown which target was meant.
var aliasDeclarations = []registry.Pair[string]{
	// Open source models
	{Key: "llama-2-13b", Value: "llama-2-13b-chat"},
	{Key: "llama-3-70b", Value: "llama-3-70b-chat"},
	{Key: "llama-3-70b", Value: "llama-3-70b-chat-turbo"},
	{Key: "llama-3-70b", Value: "llama-3-70b-chat-lite"},
	{Key: "llama-3-8b", Value: "llama-3-8b-chat"},
	{Key: "llama-3-8b", Value: "llama-3-8b-chat-turbo"},
	{Key: "llama-3-8b", Value: "llama-3-8b-chat-lite"},
	{Key: "llama-3.1-405b", Value: "llama-3.1-405b-turbo"},
	{Key: "llama-3.1-70b", Value: "llama-3.1-70b-turbo"},
	{Key: "llama-3.1-8b", Value: "llama-3.1-8b-turbo"},
	{Key: "mixtral-8x7b", Value: "Mixtral-8x7B-Instruct-v0.1"},
	{Key: "mixtral-8x22b", Value: "Mixtral-8x22B-Instruct-v0.1"},
	{Key: "mistral-7b", Value: "Mistral-7B-Instruct-v0.1"},
	{Key: "mistral-7b", Value: "Mistral-7B-Instruct-v0.2"},
	{Key: "mistral-7b", Value: "Mistral-7B-Instruct-v0.3"},
	{Key: "mixtral-8x7b-dpo", Value: "Nous-Hermes-2-Mixtral-8x7B-DPO"},
	{Key: "qwen-1.5-72b", Value: "Qwen1.5-72B-Chat"},
	{Key: "qwen-1.5-110b", Value: "Qwen1.5-110B-Chat"},
	{Key: "qwen-2-72b", Value: "Qwen2-72B-Instruct"},
	{Key: "gemma-2b", Value: "gemma-2b-it"},
	{Key: "gemma-2b-9b", Value: "gemma-2-9b-it"},
	{Key: "gemma-2b-27b", Value: "gemma-2-27b-it"},
	{Key: "deepseek", Value: "deepseek-llm-67b-chat"},
	{Key: "yi-34b", Value: "Nous-Hermes-2-Yi-34B"},
	{Key: "wizardlm-2-8x22b", Value: "WizardLM-2-8x22B"},
	{Key: "solar-10-7b", Value: "SOLAR-10.7B-Instruct-v1.0"},
	{Key: "sh-n-7b", Value: "StripedHyena-Nous-7B"},
	{Key: "sparkdesk-v1.1", Value: "sparkdesk"},

	// Other models
	{Key: "gpt-4o", Value: "chatgpt-4o-latest"},
	{Key: "gpt-4o-mini", Value: "gpt-4o-mini-2024-07-18"},
	{Key: "gpt-3.5-turbo", Value: "gpt-3.5-turbo-0125"},
	{Key: "gpt-3.5-turbo", Value: "gpt-3.5-turbo-1106"},
	{Key: "gpt-3.5-turbo", Value: "gpt-3.5-turbo-16k"},
	{Key: "gpt-3.5-turbo", Value: "gpt-3.5-turbo-0613"},
	{Key: "gpt-3.5-turbo", Value: "gpt-3.5-turbo-16k-0613"},
	{Key: "gemini-flash", Value: "gemini-1.5-flash"},
	{Key: "gemini-pro", Value: "gemini-1.5-pro"},

	// Image models
	{Key: "dalle-3", Value: "dall-e-3"},
}

var (
	aliases, shadowed = registry.Load(aliasDeclarations...)
	imageModelSet     = toSet(imageModels)
)

// Resolve maps a requested model name or alias to the upstream model id and its family.
// Unknown names are returned unchanged and treated as text models; an empty name
// resolves to DefaultModel.
func Resolve(name string) (string, provider.Family) {
	if name == "" {
		name = DefaultModel
	}
	if canonical, ok := aliases.Get(name); ok {
		name = canonical
	}
	if _, ok := imageModelSet[name]; ok {
		return name, provider.FamilyImage
	}
	return name, provider.FamilyText
}

// Alias is a public alias and the upstream model it resolves to.
type Alias struct {
	Name   string
	Target string
}

// ShadowedAlias is an alias declaration that a later declaration replaced.
type ShadowedAlias struct {
	Name      string
	Discarded string
	Kept      string
}

func TextModels() []string {
	return slices.Clone(textModels)
}

func ImageModels() []string {
	return slices.Clone(imageModels)
}

// Models lists every upstream model id, text models first.
func Models() []string {
	return slices.Concat(textModels, imageModels)
}

// Aliases lists the effective aliases in declaration order.
func Aliases() []Alias {
	declared := aliases.Declared()
	result := make([]Alias, len(declared))
	for i, p := range declared {
		result[i] = Alias{Name: p.Key, Target: p.Value}
	}
	return result
}

// ShadowedAliases reports alias declarations lost to a later duplicate.
func ShadowedAliases() []ShadowedAlias {
	result := make([]ShadowedAlias, len(shadowed))
	for i, s := range shadowed {
		result[i] = ShadowedAlias{Name: s.Key, Discarded: s.Lost, Kept: s.Kept}
	}
	return result
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
