package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// Question is a question-bank entry.
type Question struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

var questionBank = map[string][]Question{
	"python": {
		{ID: "1", Title: "Reverse String", Difficulty: "easy", Category: "Strings"},
		{ID: "2", Title: "Two Sum", Difficulty: "medium", Category: "Arrays"},
	},
	"javascript": {
		{ID: "3", Title: "Event Loop", Difficulty: "medium", Category: "Async"},
		{ID: "4", Title: "Closures", Difficulty: "easy", Category: "Functions"},
	},
}

// Questions serves the static question bank, filtered by language and
// optionally by difficulty level.
func Questions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		language := strings.ToLower(e.Request.URL.Query().Get("language"))
		level := strings.ToLower(e.Request.URL.Query().Get("level"))

		questions := questionBank[language]
		out := make([]Question, 0, len(questions))
		for _, q := range questions {
			if level != "" && q.Difficulty != level {
				continue
			}
			out = append(out, q)
		}
		return e.JSON(http.StatusOK, out)
	}
}
