package jsonx

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "json fence",
			input: "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			want:  `{"a": 1}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "unterminated fence",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
		{
			name:  "no fence",
			input: "  {\"a\": 1}  ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.want {
				t.Errorf("StripFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "plain object",
			input: `{"affiliation": "MIT", "role": "Professor"}`,
			want:  `{"affiliation": "MIT", "role": "Professor"}`,
		},
		{
			name:  "object with prose around it",
			input: `Sure, here is the result: {"role": "Postdoc"} Hope that helps!`,
			want:  `{"role": "Postdoc"}`,
		},
		{
			name:  "nested objects",
			input: `{"outer": {"inner": {"deep": 1}}, "b": 2} trailing`,
			want:  `{"outer": {"inner": {"deep": 1}}, "b": 2}`,
		},
		{
			name:    "no object",
			input:   "I could not find anything.",
			wantErr: ErrNoObject,
		},
		{
			name:    "unbalanced braces",
			input:   `{"a": {"b": 1}`,
			wantErr: ErrUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExtractObject() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractArray(t *testing.T) {
	got, err := ExtractArray("categories:\n[\"LLMs\", \"Robotics\"]\nthanks")
	if err != nil {
		t.Fatalf("ExtractArray() error = %v", err)
	}
	if got != `["LLMs", "Robotics"]` {
		t.Errorf("ExtractArray() = %q", got)
	}

	if _, err := ExtractArray("no array here"); !errors.Is(err, ErrNoObject) {
		t.Errorf("expected ErrNoObject, got %v", err)
	}

	if _, err := ExtractArray("only [ opening"); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("expected ErrUnbalanced, got %v", err)
	}
}

func TestDecodeObject(t *testing.T) {
	var out struct {
		Affiliation string  `json:"affiliation"`
		Role        string  `json:"role"`
		PhotoURL    *string `json:"photo_url"`
	}
	response := "```json\n{\"affiliation\": \"ETH Zurich\", \"role\": \"PhD Student\", \"photo_url\": null}\n```"
	if err := DecodeObject(response, &out); err != nil {
		t.Fatalf("DecodeObject() error = %v", err)
	}
	if out.Affiliation != "ETH Zurich" || out.Role != "PhD Student" {
		t.Errorf("unexpected payload: %+v", out)
	}
	if out.PhotoURL != nil {
		t.Errorf("expected nil photo_url, got %v", *out.PhotoURL)
	}
}

func TestDecodeArray(t *testing.T) {
	var cats []string
	if err := DecodeArray("```\n[\"A\", \"B\"]\n```", &cats); err != nil {
		t.Fatalf("DecodeArray() error = %v", err)
	}
	if len(cats) != 2 || cats[0] != "A" || cats[1] != "B" {
		t.Errorf("DecodeArray() = %v", cats)
	}
}
