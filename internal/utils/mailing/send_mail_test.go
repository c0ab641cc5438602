package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelcomeMail(t *testing.T) {
	subject, body := WelcomeMail("Ana", "http://localhost:5050")
	assert.Equal(t, "Welcome to Recipe Organizer", subject)
	assert.Contains(t, body, "<p>Hi Ana,</p>")
	assert.Contains(t, body, `<a href="http://localhost:5050">`)
}

func TestWelcomeMailEscapesInput(t *testing.T) {
	_, body := WelcomeMail(`<script>alert("x")</script>`, `http://x.test/"><img src=y>`)
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img")
	assert.Contains(t, body, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, body, `href="http://x.test/&#34;&gt;&lt;img src=y&gt;"`)
}
