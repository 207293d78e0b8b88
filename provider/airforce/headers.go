package airforce

import "net/http"

// defaultHeaders is the browser-like header set the upstream expects on both endpoints.
// The bearer credential is a fixed placeholder; the API is unauthenticated.
func defaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Content-Type", "application/json")
	h.Set("Origin", "https://api.airforce")
	h.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36")
	h.Set("Authorization", "Bearer null")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Priority", "u=1, i")
	h.Set("Referer", "https://llmplayground.net/")
	h.Set("Sec-Ch-Ua", `"Not;A=Brand";v="24", "Chromium";v="128"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", `"Linux"`)
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "cross-site")
	return h
}
