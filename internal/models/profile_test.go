package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileValidate(t *testing.T) {
	p := &Profile{Name: "Luna", Type: ProfileTypePet}
	assert.NoError(t, p.Validate())

	p = &Profile{Name: "", Type: ProfileTypeSelf}
	assert.Error(t, p.Validate())

	p = &Profile{Name: "Alex", Type: "robot"}
	assert.Error(t, p.Validate())
}
