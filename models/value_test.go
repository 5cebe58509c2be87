package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSONBoundary(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Value
	}{
		{"null", `null`, NullValue()},
		{"true", `true`, BoolValue(true)},
		{"integer", `1700000000`, IntValue(1700000000)},
		{"large integer", `9007199254740993`, IntValue(9007199254740993)},
		{"float", `1.25`, FloatValue(1.25)},
		{"integral float", `2.0`, IntValue(2)},
		{"string", `"merhaba"`, StringValue("merhaba")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestValueRejectsCompositeJSON(t *testing.T) {
	for _, raw := range []string{`{"a":1}`, `[1,2]`} {
		var v Value
		assert.Error(t, json.Unmarshal([]byte(raw), &v), raw)
	}
}

func TestValueMarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Value{
		"b": BoolValue(false),
		"f": FloatValue(0.5),
		"i": IntValue(-3),
		"n": NullValue(),
		"s": StringValue(`say "hi"`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":false,"f":0.5,"i":-3,"n":null,"s":"say \"hi\""}`, string(out))

	_, err = json.Marshal(FloatValue(math.NaN()))
	assert.Error(t, err)
}

func TestValueLiteral(t *testing.T) {
	assert.Equal(t, "'it''s'", StringValue("it's").Literal())
	assert.Equal(t, "42", IntValue(42).Literal())
	assert.Equal(t, "3.5", FloatValue(3.5).Literal())
	assert.Equal(t, "TRUE", BoolValue(true).Literal())
	assert.Equal(t, "NULL", NullValue().Literal())
}

func TestValueAccessors(t *testing.T) {
	_, ok := StringValue("x").Int64()
	assert.False(t, ok)

	f, ok := IntValue(7).Float64()
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = FloatValue(7.5).Int64()
	assert.False(t, ok)

	assert.Equal(t, KindNull, Value{}.Kind())
	assert.Equal(t, "number", KindNumber.String())
}

func TestClaimsExpired(t *testing.T) {
	now := time.Unix(1000, 0)

	assert.False(t, NewSessionClaims(1, "a@b.co", now.Add(time.Second)).Expired(now))
	// exp == now artık geçerli değil (exp > now olmalı)
	assert.True(t, NewSessionClaims(1, "a@b.co", now).Expired(now))
	assert.True(t, NewSessionClaims(1, "a@b.co", now.Add(-time.Second)).Expired(now))
	assert.True(t, Claims{ClaimEmail: StringValue("a@b.co")}.Expired(now))
	assert.True(t, Claims{ClaimExpiresAt: StringValue("2000")}.Expired(now))
}

func TestClaimsAccessors(t *testing.T) {
	c := NewSessionClaims(9, "zeynep@example.com", time.Unix(5000, 0))

	id, ok := c.UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	email, ok := c.Email()
	assert.True(t, ok)
	assert.Equal(t, "zeynep@example.com", email)

	exp, ok := c.ExpiresAt()
	assert.True(t, ok)
	assert.Equal(t, int64(5000), exp)
}

func TestSignUpRequestValidate(t *testing.T) {
	req := &SignUpRequest{Email: "  Ali@Example.com ", Username: "ali", Password: "supersecret"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "ali@example.com", req.Email)

	bad := []SignUpRequest{
		{Email: "not-an-email", Username: "ali", Password: "supersecret"},
		{Email: "ali@example.com", Username: "al", Password: "supersecret"},
		{Email: "ali@example.com", Username: "ali", Password: "short"},
	}
	for _, r := range bad {
		r := r
		assert.Error(t, r.Validate())
	}
}
