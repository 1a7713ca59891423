package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "profile:ada_l", profileKey("Ada_L"))
	assert.Equal(t, "sections:p1", sectionKey("p1"))
}
