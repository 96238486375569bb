package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type validatorProbe struct {
	Type    string `validate:"required,content_type"`
	Media   string `validate:"omitempty,media_type"`
	PartID  string `validate:"required,objectid"`
	Content string `validate:"no_xss"`
}

func TestCustomValidators(t *testing.T) {
	InitValidator()

	ok := validatorProbe{Type: "shot", Media: "clip", PartID: "65f000000000000000000001", Content: "INT. HOUSE"}
	assert.NoError(t, Validate.Struct(ok))

	bad := ok
	bad.Type = "scene"
	assert.Error(t, Validate.Struct(bad))

	bad = ok
	bad.PartID = "xyz"
	assert.Error(t, Validate.Struct(bad))

	bad = ok
	bad.Content = "<script>alert(1)</script>"
	assert.Error(t, Validate.Struct(bad))

	bad = ok
	bad.Media = "audio"
	assert.Error(t, Validate.Struct(bad))
}
