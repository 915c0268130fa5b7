package anthropic

import "testing"

func TestMessageResponseText(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: `{"full_name":`},
			{Type: "thinking", Text: "ignored"},
			{Type: "text", Text: ` "Jane Smith"}`},
		},
	}
	if got := resp.Text(); got != `{"full_name": "Jane Smith"}` {
		t.Errorf("Text() = %q", got)
	}
}

func TestMessageResponseTextEmpty(t *testing.T) {
	resp := &MessageResponse{}
	if got := resp.Text(); got != "" {
		t.Errorf("Text() = %q, want empty", got)
	}
}
