package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobTitle_Valid(t *testing.T) {
	for _, j := range JobTitles {
		assert.True(t, j.Valid(), string(j))
	}
	assert.True(t, JobTitleNone.Valid())
	assert.False(t, JobTitle("Astronaut").Valid())
}
