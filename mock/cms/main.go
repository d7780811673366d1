package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"
)

//go:embed data.json
var jsonData []byte

type dataset struct {
	Articles   []map[string]any `json:"articles"`
	Tools      []map[string]any `json:"tools"`
	Categories []map[string]any `json:"categories"`
}

func main() {
	var data dataset
	if err := json.Unmarshal(jsonData, &data); err != nil {
		log.Fatalf("[Mock CMS] invalid data.json: %v", err)
	}

	// Sanity GROQ query API
	http.HandleFunc("/v2024-01-01/data/query/production", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (20-100ms)
		time.Sleep(time.Duration(20+time.Now().UnixNano()%80) * time.Millisecond)

		q := r.URL.Query()
		result := data.query(q.Get("query"), param(q.Get("$category")), param(q.Get("$slug")))

		writeJSON(w, http.StatusOK, map[string]any{
			"query":  q.Get("query"),
			"result": result,
			"ms":     1,
		})
		log.Printf("[Mock CMS] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	// Buttondown subscribers API; addresses containing "taken" are rejected
	http.HandleFunc("/v1/subscribers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)

			return
		}

		var body struct {
			EmailAddress string `json:"email_address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid body"})

			return
		}
		if strings.Contains(body.EmailAddress, "taken") {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code":   "email_already_exists",
				"detail": "This email address is already subscribed.",
			})

			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"email_address": body.EmailAddress})
		log.Printf("[Mock CMS] subscribed %s", body.EmailAddress)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
	})

	log.Println("Mock CMS running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// query answers the handful of GROQ shapes the content service sends.
func (d dataset) query(groq, category, slug string) any {
	if strings.Contains(groq, `_type == "category"`) {
		return d.Categories
	}

	docs := d.Articles
	if strings.Contains(groq, `"aiTool"`) {
		docs = d.Tools
	}

	switch {
	case strings.Contains(groq, "[0]._id"):
		if len(d.Articles) == 0 {
			return nil
		}

		return d.Articles[0]["_id"]
	case strings.Contains(groq, "$slug"):
		for _, doc := range docs {
			if doc["slug"] == slug && !scheduled(doc) {
				return doc
			}
		}

		return nil
	}

	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		if scheduled(doc) {
			continue
		}
		if category == "" || matchesCategory(doc, category) {
			out = append(out, doc)
		}
	}

	return out
}

func matchesCategory(doc map[string]any, category string) bool {
	if c, ok := doc["category"].(string); ok {
		return c == category
	}

	cats, _ := doc["categories"].([]any)

	return slices.Contains(cats, any(category))
}

// scheduled reports whether an article is published in the future.
func scheduled(doc map[string]any) bool {
	raw, _ := doc["publishedAt"].(string)
	at, err := time.Parse(time.RFC3339, raw)

	return err == nil && at.After(time.Now())
}

// param decodes a JSON-encoded GROQ parameter.
func param(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return ""
	}

	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Mock CMS] write error: %v", err)
	}
}
