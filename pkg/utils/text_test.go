package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Revenue Page", CollapseSpace("  Revenue \n\t Page "))
	assert.Equal(t, "", CollapseSpace(" \n "))
}
