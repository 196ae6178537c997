package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteBareValues(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"word", `"type":wall,`, `"type":"wall",`},
		{"number stays bare", `"count":5,`, `"count":5,`},
		{"negative float stays bare", `"x":-1.5}`, `"x":-1.5}`},
		{"digit then letter", `"n":1a,`, `"n":"1a",`},
		{"json literals stay bare", `{"a":true,"b":null,"c":1e5,"d":false}`, `{"a":true,"b":null,"c":1e5,"d":false}`},
		{"exponent stays bare", `"c":1e5,`, `"c":1e5,`},
		{"true stays bare", `"a": true }`, `"a": true }`},
		{"several on one line", `{"a":x,"b":y}`, `{"a":"x","b":"y"}`},
		{"nested object", `"frames":[{"bmp":tree.png}],`, `"frames":[{"bmp":"tree.png"}],`},
		{"closing bracket terminates", `"a":b]`, `"a":"b"]`},
		{"array value untouched", `"list":[a,b],`, `"list":[a,b],`},
		{"string value untouched", `"a":"x",`, `"a":"x",`},
		{"no terminator on line", `"a":wall`, `"a":wall`},
		{"quote inside token", `"a":wa"ll",`, `"a":wa"ll",`},
		{"colon inside string value", `{"u":"a:b","t":c}`, `{"u":"a:b","t":"c"}`},
		{"whitespace around token", `"type": wall ,`, `"type": "wall" ,`},
		{"inner whitespace before last letter", `"a": b c,`, `"a": "b c",`},
		{"whitespace after last letter", `"a":b 1,`, `"a":b 1,`},
		{"non-ascii letters only", `"a":ééé,`, `"a":ééé,`},
		{"non-ascii with ascii letter", `"a":éx,`, `"a":"éx",`},
		{"no colon", `["a",b]`, `["a",b]`},
	}

	for _, tt := range tests {
		assert.Equal(tt.want, QuoteBareValues(tt.in), tt.name)
	}
}

func TestQuoteBareValuesLongLine(t *testing.T) {
	assert := assert.New(t)

	var in, want strings.Builder
	in.WriteString("{")
	want.WriteString("{")
	for i := 0; i < 2000; i++ {
		in.WriteString(`"k":v,`)
		want.WriteString(`"k":"v",`)
	}
	in.WriteString(`"end":1}`)
	want.WriteString(`"end":1}`)

	assert.Equal(want.String(), QuoteBareValues(in.String()))
}
