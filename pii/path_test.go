package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootPath_LastSegmentEmpty(t *testing.T) {
	assert.Equal(t, "", RootPath.LastSegment())
	assert.Equal(t, ".", RootPath.String())
}

func TestPath_ChildLastSegmentAndString(t *testing.T) {
	p := RootPath.Child("user").Child("email")
	assert.Equal(t, "email", p.LastSegment())
	assert.Equal(t, "user.email", p.String())
}

func TestPath_IndexLastSegmentAndString(t *testing.T) {
	p := RootPath.Child("tags").Index(2)
	assert.Equal(t, "2", p.LastSegment())
	assert.Equal(t, "tags.2", p.String())
}

func TestJoinPath_RootParentOmitsDot(t *testing.T) {
	assert.Equal(t, "message", JoinPath(".", "message"))
	assert.Equal(t, "message", JoinPath("", "message"))
}

func TestJoinPath_NestedParent(t *testing.T) {
	assert.Equal(t, "user.email", JoinPath("user", "email"))
}

func TestPath_NilReceiverIsRootLike(t *testing.T) {
	var p *Path
	assert.Equal(t, "", p.LastSegment())
	assert.Equal(t, ".", p.String())
}
