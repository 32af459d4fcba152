package pattern

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/serdescan/internal/models"
)

func TestValidateDecimal(t *testing.T) {
	tests := []struct {
		pattern string
		detail  string // empty when valid
	}{
		{"", ""},
		{"#,##0.00", ""},
		{"0.00", ""},
		{"#.##", ""},
		{".00", ""},
		{"0.###E0", ""},
		{"00.00E00", ""},
		{"#,##0.00;(#,##0.00)", ""},
		{"0.00%", ""},
		{"'#'0", ""},
		{"$#,##0.00 'units'", ""},
		{"0;", ""},
		{"!!!", "Missing digit placeholder in pattern"},
		{"abc", "Missing digit placeholder in pattern"},
		{"0.0.0", "Multiple decimal separators"},
		{"0E", "Malformed exponential pattern"},
		{"0.0E0E0", "Multiple exponential symbols"},
		{"0.0E00 E", "Multiple exponential symbols"},
		{"0.0#0", "Unexpected '0' in pattern"},
		{"#.#0#", "Malformed pattern"},
		{"0#", "Malformed pattern"},
		{"#,##0,", "Grouping separator at end of integer part"},
		{"0.00,0", "Grouping separator in fraction part"},
		{"0 0", "Unquoted special character '0' in pattern"},
		{"0'", "Unterminated quote"},
		{"0;0;0", "Too many pattern separators"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := ValidateDecimal(tt.pattern)
			if tt.detail == "" {
				assert.NoError(t, err)
				return
			}

			var perr *Error
			require.True(t, stderrors.As(err, &perr), "expected pattern error for %q", tt.pattern)
			assert.Equal(t, InvalidDecimalFormat, perr.Reason)
			assert.Equal(t, tt.detail, perr.Detail)
			assert.Equal(t, tt.pattern, perr.Pattern)
		})
	}
}

func TestValidateDateTime(t *testing.T) {
	tests := []struct {
		pattern string
		detail  string
	}{
		{"yyyy-MM-dd", ""},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSXXX", ""},
		{"dd MMM uuuu", ""},
		{"EEEE, d MMMM yyyy", ""},
		{"hh:mm a", ""},
		{"yyyy-MM-dd[ HH:mm]", ""},
		{"yyyy[-MM", ""},
		{"VV", ""},
		{"'It''s' HH", ""},
		{"", ""},
		{"yyyy-MM-ddd", "Too many pattern letters: d"},
		{"MMMMMM", "Too many pattern letters: M"},
		{"HHH", "Too many pattern letters: H"},
		{"aa", "Too many pattern letters: a"},
		{"SSSSSSSSSS", "Too many pattern letters: S"},
		{"zzzzz", "Too many pattern letters: z"},
		{"V", "Wrong number of pattern letters: V"},
		{"OO", "Wrong number of pattern letters: O"},
		{"bb", "Unknown pattern letter: b"},
		{"yyyy-jj", "Unknown pattern letter: j"},
		{"yyyy#", "Pattern includes reserved character: '#'"},
		{"{yyyy}", "Pattern includes reserved character: '{'"},
		{"yyyy]", "Pattern invalid as it contains ] without previous ["},
		{"yyyy 'at", "Pattern ends with an incomplete string literal"},
		{"ppH", ""},
		{"pdd/MM", ""},
		{"p", "Pad letter 'p' must be followed by valid pad pattern"},
		{"HH:mmp", "Pad letter 'p' must be followed by valid pad pattern"},
		{"pp-dd", "Pad letter 'p' must be followed by valid pad pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := ValidateDateTime(tt.pattern)
			if tt.detail == "" {
				assert.NoError(t, err)
				return
			}

			var perr *Error
			require.True(t, stderrors.As(err, &perr), "expected pattern error for %q", tt.pattern)
			assert.Equal(t, InvalidDateFormat, perr.Reason)
			assert.Equal(t, tt.detail, perr.Detail)
		})
	}
}

func TestValidateDispatchesByType(t *testing.T) {
	number := models.TypeRef{Name: "int"}
	temporal := models.TypeRef{Name: "java.time.LocalDate"}
	other := models.TypeRef{Name: "String"}

	assert.NoError(t, Validate(number, "#,##0.00"))
	assert.Error(t, Validate(number, "!!!"))

	assert.NoError(t, Validate(temporal, "yyyy-MM-dd"))
	assert.Error(t, Validate(temporal, "yyyy-MM-dd{"))

	assert.NoError(t, Validate(other, "!!!"), "patterns on other types are not checked")
	assert.NoError(t, Validate(other, "{"))
}

func TestErrorMessage(t *testing.T) {
	err := Validate(models.TypeRef{Name: "Double"}, "!!!")
	require.Error(t, err)
	assert.Equal(t, "Specified pattern [!!!] is not a valid decimal format: Missing digit placeholder in pattern", err.Error())

	err = Validate(models.TypeRef{Name: "LocalDateTime"}, "yyyy]")
	require.Error(t, err)
	assert.Equal(t, "Specified pattern [yyyy]] is not a valid date format: Pattern invalid as it contains ] without previous [", err.Error())
}

func TestPropertyType(t *testing.T) {
	field := &models.Declaration{Kind: models.FieldDeclaration, Type: models.TypeRef{Name: "BigDecimal"}}
	getter := &models.Declaration{Kind: models.MethodDeclaration, Type: models.TypeRef{Name: "LocalDate"}}
	setter := &models.Declaration{
		Kind:       models.MethodDeclaration,
		Type:       models.TypeRef{Name: "void"},
		Parameters: []models.Parameter{{Name: "v", Type: models.TypeRef{Name: "long"}}},
	}
	ctor := &models.Declaration{Kind: models.ConstructorDeclaration}
	class := &models.Declaration{Kind: models.ClassDeclaration}

	got, ok := PropertyType(field)
	assert.True(t, ok)
	assert.Equal(t, "BigDecimal", got.Name)

	got, ok = PropertyType(getter)
	assert.True(t, ok)
	assert.Equal(t, "LocalDate", got.Name)

	got, ok = PropertyType(setter)
	assert.True(t, ok)
	assert.Equal(t, "long", got.Name)

	_, ok = PropertyType(ctor)
	assert.False(t, ok)
	_, ok = PropertyType(class)
	assert.False(t, ok)
}
