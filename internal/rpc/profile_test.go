package rpc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestProfileFromMap(t *testing.T) {
	got := ProfileFromMap(map[string]any{
		"name":      "Maria Lopez",
		"role":      "host",
		"avatar":    "https://cdn/x.png",
		"phone":     42.0,
		"languages": []any{"es"},
	})

	want := Profile{
		Name:   Str("Maria Lopez"),
		Role:   Str("host"),
		Avatar: Str("https://cdn/x.png"),
		Extra:  map[string]any{"phone": 42.0, "languages": []any{"es"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfile_MapOmitsUnset(t *testing.T) {
	p := Profile{Name: Str("Alex"), Extra: map[string]any{"k": "v"}}
	assert.Equal(t, map[string]any{"name": "Alex", "k": "v"}, p.Map())
	assert.Empty(t, Profile{}.Map())
}

func TestProfile_EmptyStringSurvivesRoundTrip(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)

	data, err := c.Marshal(&UpdateProfileRequest{Profile: ProfileFromMap(map[string]any{"bio": "", "name": "Alex"})})
	require.NoError(t, err)

	var out UpdateProfileRequest
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, map[string]any{"bio": "", "name": "Alex"}, out.Profile.Map())
}

func TestProfile_Merge(t *testing.T) {
	base := Profile{Name: Str("Alex"), Bio: Str("hi"), Address: Str("Calle 1"), Extra: map[string]any{"a": 1.0}}
	got := base.Merge(Profile{Bio: Str("rider"), Phone: Str("+34 600"), Address: Str(""), Extra: map[string]any{"b": true}})

	want := Profile{Name: Str("Alex"), Bio: Str("rider"), Phone: Str("+34 600"), Address: Str(""), Extra: map[string]any{"a": 1.0, "b": true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)

	data, err := c.Marshal(&SignInRequest{Email: "a@b.co", Password: "pw"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.co","password":"pw"}`, string(data))

	var out SignInRequest
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, "a@b.co", out.Email)
}
