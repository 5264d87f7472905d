package analysis

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare json",
			text: `[{"query":"shoes","results":[]}]`,
			want: `[{"query":"shoes","results":[]}]`,
		},
		{
			name: "bare json with whitespace",
			text: "\n\n  [1, 2]  \n",
			want: "[1, 2]",
		},
		{
			name: "json fence",
			text: "```json\n[{\"query\":\"shoes\"}]\n```",
			want: `[{"query":"shoes"}]`,
		},
		{
			name: "json fence with surrounding prose",
			text: "Here are the results:\n```json\n{\"a\":1}\n```\nLet me know if you need more.",
			want: `{"a":1}`,
		},
		{
			name: "plain fence",
			text: "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "plain fence with surrounding prose",
			text: "Here:\n```\n[{\"query\":\"shoes\",\"results\":[]}]\n```\nDone.",
			want: `[{"query":"shoes","results":[]}]`,
		},
		{
			name: "plain fence with info string",
			text: "Results below.\n```javascript\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "single line plain fence",
			text: "``` {\"a\":1} ```\nthat is all",
			want: `{"a":1}`,
		},
		{
			name: "unterminated json fence",
			text: "```json\n{\"a\":1}",
			want: `{"a":1}`,
		},
		{
			name: "single line json fence",
			text: "```json {\"a\":1} ```",
			want: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.text)
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSON_Empty(t *testing.T) {
	for _, text := range []string{"", "   \n", "```json\n```", "```\n\n```"} {
		if _, err := ExtractJSON(text); !errors.Is(err, ErrEmptyPayload) {
			t.Errorf("ExtractJSON(%q) error = %v, want ErrEmptyPayload", text, err)
		}
	}
}
