package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `validate:"required,max=5"`
	Type int8   `validate:"oneof=1 2"`
}

func TestValidateDTO(t *testing.T) {
	assert.NoError(t, ValidateDTO(&sample{Name: "abc", Type: 1}))

	err := ValidateDTO(&sample{Name: "", Type: 1})
	assert.ErrorContains(t, err, "Name")

	err = ValidateDTO(&sample{Name: "abc", Type: 3})
	assert.ErrorContains(t, err, "oneof")
}
