package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketKey(t *testing.T) {
	assert.Equal(t, "exports/a.xlsx", NewBucket("b", "exports").Key("a.xlsx"))
	assert.Equal(t, "exports/a.xlsx", NewBucket("b", "exports/").Key("a.xlsx"))
	assert.Equal(t, "a.xlsx", NewBucket("b", "").Key("a.xlsx"))
}
