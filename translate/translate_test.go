package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("core0 is finished", From("core%d is finished", 0))
	assert.Equal("address 0x00000018", From("address 0x%08x", 0x18))
}
