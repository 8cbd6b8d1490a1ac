package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	p := parsePagination("", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestParsePaginationValues(t *testing.T) {
	p := parsePagination("3", "50")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.Limit)
}

func TestParsePaginationRejectsGarbage(t *testing.T) {
	p := parsePagination("abc", "-5")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestParsePaginationCapsLimit(t *testing.T) {
	p := parsePagination("1", "1000")
	assert.Equal(t, 100, p.Limit)
}
