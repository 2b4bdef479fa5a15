package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProperty = `{
	"name": "Loft",
	"description": "Two floors",
	"price": 1200,
	"bedrooms": 0,
	"bathrooms": 1,
	"location": "Nairobi",
	"is_active": false,
	"user_id": 3
}`

func TestParseSignup(t *testing.T) {
	in, err := ParseSignup(strings.NewReader(`{"first_name":"A","last_name":"B","phone":"555-0001","email":" A@Example.com ","password":"pw","role":"admin"}`))
	require.NoError(t, err)
	assert.Equal(t, SignupInput{FirstName: "A", LastName: "B", Phone: "555-0001", Email: "a@example.com", Password: "pw"}, in)
}

func TestParseSignupReportsEveryMissingField(t *testing.T) {
	_, err := ParseSignup(strings.NewReader(`{"first_name":"A"}`))
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)
	assert.Equal(t, "last_name is required", verrs["last_name"])
	assert.Equal(t, "phone is required", verrs["phone"])
	assert.Equal(t, "email is required", verrs["email"])
	assert.Equal(t, "password is required", verrs["password"])
}

func TestParseSignupRejectsBadEmail(t *testing.T) {
	_, err := ParseSignup(strings.NewReader(`{"first_name":"A","last_name":"B","phone":"1","email":"nope","password":"pw"}`))
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "email must be a valid email address", verrs["email"])
}

func TestParseLogin(t *testing.T) {
	in, err := ParseLogin(strings.NewReader(`{"email":"a@example.com","password":"pw"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", in.Email)

	_, err = ParseLogin(strings.NewReader(`{"email":"a@example.com"}`))
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "password is required", verrs["password"])
}

func TestParseCreatePropertyKeepsZeroValues(t *testing.T) {
	in, err := ParseCreateProperty(strings.NewReader(validProperty))
	require.NoError(t, err)
	assert.Equal(t, 0, in.Bedrooms)
	assert.False(t, in.IsActive)
	assert.Equal(t, uint(3), in.OwnerID)
	assert.Nil(t, in.Image)
}

func TestParseCreatePropertyImage(t *testing.T) {
	body := strings.Replace(validProperty, `"name": "Loft",`, `"name": "Loft", "image": "loft.jpg",`, 1)
	in, err := ParseCreateProperty(strings.NewReader(body))
	require.NoError(t, err)
	require.NotNil(t, in.Image)
	assert.Equal(t, "loft.jpg", *in.Image)
}

func TestParseCreatePropertyMissingFields(t *testing.T) {
	for _, field := range []string{"name", "description", "price", "bedrooms", "bathrooms", "location", "is_active", "user_id"} {
		t.Run(field, func(t *testing.T) {
			body := removeField(t, validProperty, field)
			_, err := ParseCreateProperty(strings.NewReader(body))
			var verrs Errors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, field+" is required", verrs[field])
		})
	}
}

func TestParseCreatePropertyTypeErrors(t *testing.T) {
	cases := map[string]struct {
		old, new, field, msg string
	}{
		"price string":   {`"price": 1200`, `"price": "1200"`, "price", "price must be an integer"},
		"active string":  {`"is_active": false`, `"is_active": "yes"`, "is_active", "is_active must be a boolean"},
		"negative rooms": {`"bathrooms": 1`, `"bathrooms": -1`, "bathrooms", "bathrooms must be at least 0"},
		"zero owner":     {`"user_id": 3`, `"user_id": 0`, "user_id", "user_id must be greater than 0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			body := strings.Replace(validProperty, tc.old, tc.new, 1)
			_, err := ParseCreateProperty(strings.NewReader(body))
			var verrs Errors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tc.msg, verrs[tc.field])
		})
	}
}

func TestParseRejectsNonObjectBody(t *testing.T) {
	_, err := ParseCreateProperty(strings.NewReader(`[1,2]`))
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "body")

	_, err = ParseLogin(strings.NewReader(``))
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "request body is required", verrs["body"])
}

func TestParseRejectsTrailingData(t *testing.T) {
	for name, body := range map[string]string{
		"garbage":       `{"email":"a@x.com","password":"p"} junk`,
		"second object": `{"email":"a@x.com","password":"p"}{"email":"b@x.com","password":"q"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLogin(strings.NewReader(body))
			var verrs Errors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, "request body must be a single JSON object", verrs["body"])
		})
	}

	in, err := ParseLogin(strings.NewReader("{\"email\":\"a@x.com\",\"password\":\"p\"}\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", in.Email)
}

func TestErrorsMessageIsSorted(t *testing.T) {
	err := Errors{"b": "b is required", "a": "a is required"}
	assert.Equal(t, "validation failed: a: a is required; b: b is required", err.Error())
}

func removeField(t *testing.T, body, field string) string {
	t.Helper()
	lines := strings.Split(body, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.Contains(l, `"`+field+`"`) {
			continue
		}
		out = append(out, l)
	}
	res := strings.Join(out, "\n")
	// the last field carries no trailing comma; drop the one left dangling
	return strings.Replace(res, ",\n}", "\n}", 1)
}
