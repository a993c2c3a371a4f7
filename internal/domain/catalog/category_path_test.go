package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{",", nil},
		{"", nil},
		{",men,", []string{"men"}},
		{",men,shoes,", []string{"men", "shoes"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, PathSegments(tt.path))
			assert.Equal(t, len(tt.want), PathDepth(tt.path))
		})
	}
	assert.Equal(t, ",men,shoes,", JoinPathSegments([]string{"men", "shoes"}))
	assert.Equal(t, RootPath, JoinPathSegments(nil))
}

func TestPathHasSegment(t *testing.T) {
	tests := []struct {
		name string
		path string
		id   string
		want bool
	}{
		{"whole segment", ",10,20,", "10", true},
		{"last segment", ",10,20,", "20", true},
		{"prefix of segment", ",10,", "1", false},
		{"suffix of segment", ",10,", "0", false},
		{"root path", ",", "10", false},
		{"empty id", ",10,", "", false},
		{"case sensitive", ",Men,", "men", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathHasSegment(tt.path, tt.id))
			assert.Equal(t, tt.want, IsDescendantPath(tt.path, tt.id))
		})
	}
}

func TestReplacePathPrefix(t *testing.T) {
	got, ok := ReplacePathPrefix(",a,b,c,", ",a,b,", ",a,d,b,")
	assert.True(t, ok)
	assert.Equal(t, ",a,d,b,c,", got)

	got, ok = ReplacePathPrefix(",a,bb,", ",a,b,", ",x,b,")
	assert.False(t, ok)
	assert.Equal(t, ",a,bb,", got)
}

func TestRenamePathSegment(t *testing.T) {
	got, ok := RenamePathSegment(",men,shoes,", "shoes", "footwear")
	assert.True(t, ok)
	assert.Equal(t, ",men,footwear,", got)

	got, ok = RenamePathSegment(",men,shoestring,", "shoes", "footwear")
	assert.False(t, ok)
	assert.Equal(t, ",men,shoestring,", got)
}

func TestParentIDFromPath(t *testing.T) {
	assert.Equal(t, "", ParentIDFromPath(RootPath))
	assert.Equal(t, "shoes", ParentIDFromPath(",men,shoes,"))
	assert.Equal(t, ",men,shoes,", ChildPath(",men,", "shoes"))
}

func TestSegmentLikePattern(t *testing.T) {
	assert.Equal(t, "%,men,%", SegmentLikePattern("men"))
	assert.Equal(t, `%,50\%\_off\\,%`, SegmentLikePattern(`50%_off\`))
}
