package services

import (
	"testing"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMomentSanitizeStripsMarkup(t *testing.T) {
	s := NewMomentService(nil, nil)

	m := &models.Moment{
		Title:   "<script>alert('x')</script>First steps",
		Content: "<b>Bold</b> day at the <a href=\"evil\">park</a>",
		Tags:    []string{" <i>family</i> ", "outdoors"},
	}
	s.sanitize(m)

	assert.Equal(t, "First steps", m.Title)
	assert.Equal(t, "Bold day at the park", m.Content)
	assert.Equal(t, []string{"family", "outdoors"}, m.Tags)
}

func TestMomentSanitizeTrimsWhitespace(t *testing.T) {
	s := NewMomentService(nil, nil)

	m := &models.Moment{Title: "  Quiet morning  ", Content: "\tTea on the porch\n"}
	s.sanitize(m)

	assert.Equal(t, "Quiet morning", m.Title)
	assert.Equal(t, "Tea on the porch", m.Content)
}
