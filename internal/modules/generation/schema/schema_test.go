package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func violation(t *testing.T, err error) *Violation {
	t.Helper()
	require.Error(t, err)
	v, ok := err.(*Violation)
	require.True(t, ok, "want *Violation, got %T", err)
	return v
}

func TestRoleProfileAcceptsWellFormed(t *testing.T) {
	tree := decode(t, `{"archetype":"Builder","skillAreas":[{"area":"Delivery","skills":[
		{"id":"planning","name":"Planning","description":"Break work down","targetLevel":4}]}]}`)
	assert.NoError(t, Validate(tree, RoleProfile()))
}

func TestRoleProfileViolations(t *testing.T) {
	cases := []struct {
		name, raw, field, reason string
	}{
		{"missing archetype", `{"skillAreas":[]}`, "archetype", "is required"},
		{"empty areas", `{"archetype":"A","skillAreas":[]}`, "skillAreas", "must not be empty"},
		{"level too high", `{"archetype":"A","skillAreas":[{"area":"X","skills":[{"id":"a","name":"A","description":"d","targetLevel":7}]}]}`,
			"skillAreas[0].skills[0].targetLevel", "must be between 1 and 5, got 7"},
		{"level fractional", `{"archetype":"A","skillAreas":[{"area":"X","skills":[{"id":"a","name":"A","description":"d","targetLevel":3.5}]}]}`,
			"skillAreas[0].skills[0].targetLevel", "expected integer, got number"},
		{"level as string", `{"archetype":"A","skillAreas":[{"area":"X","skills":[{"id":"a","name":"A","description":"d","targetLevel":"3"}]}]}`,
			"skillAreas[0].skills[0].targetLevel", "expected integer, got string"},
		{"blank skill name", `{"archetype":"A","skillAreas":[{"area":"X","skills":[{"id":"a","name":"  ","description":"d","targetLevel":3}]}]}`,
			"skillAreas[0].skills[0].name", "must not be empty"},
		{"root array", `[]`, "", "expected object, got array"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := violation(t, Validate(decode(t, tc.raw), RoleProfile()))
			assert.Equal(t, tc.field, v.Field)
			assert.Equal(t, tc.reason, v.Reason)
		})
	}
}

func TestMentalModelsExactCount(t *testing.T) {
	model := `{"name":"n","explanation":"e","newPerspective":"p","keyInsight":"k","practicalAction":"a"}`
	four := `{"models":[` + strings.Repeat(model+",", 3) + model + `]}`
	five := `{"models":[` + strings.Repeat(model+",", 4) + model + `]}`

	v := violation(t, Validate(decode(t, four), MentalModels()))
	assert.Equal(t, "models", v.Field)
	assert.Equal(t, "expected 5, got 4", v.Reason)
	assert.Equal(t, "models: expected 5, got 4", v.Error())

	assert.NoError(t, Validate(decode(t, five), MentalModels()))
}

func TestMentalModelsMissingField(t *testing.T) {
	model := `{"name":"n","explanation":"e","newPerspective":"p","keyInsight":"k","practicalAction":"a"}`
	bad := `{"name":"n","explanation":"e","newPerspective":"p","keyInsight":"k"}`
	raw := `{"models":[` + strings.Repeat(model+",", 4) + bad + `]}`
	v := violation(t, Validate(decode(t, raw), MentalModels()))
	assert.Equal(t, "models[4].practicalAction", v.Field)
}

func TestGrowthPlanBounds(t *testing.T) {
	item := `{"type":"book","title":"T","description":"D","link":null}`
	build := func(n int) string {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = item
		}
		return `{"growthItems":[` + strings.Join(parts, ",") + `]}`
	}

	assert.NoError(t, Validate(decode(t, build(0)), GrowthPlan()), "empty list is low-confidence, not invalid")
	assert.NoError(t, Validate(decode(t, build(3)), GrowthPlan()))
	assert.NoError(t, Validate(decode(t, build(8)), GrowthPlan()))

	v := violation(t, Validate(decode(t, build(2)), GrowthPlan()))
	assert.Equal(t, "expected at least 3 items, got 2", v.Reason)
	v = violation(t, Validate(decode(t, build(9)), GrowthPlan()))
	assert.Equal(t, "expected at most 8 items, got 9", v.Reason)
}

func TestGrowthPlanRejectsUnknownType(t *testing.T) {
	raw := `{"growthItems":[
		{"type":"book","title":"T","description":"D"},
		{"type":"course","title":"T","description":"D","link":"https://x"},
		{"type":"podcast","title":"T","description":"D"}]}`
	v := violation(t, Validate(decode(t, raw), GrowthPlan()))
	assert.Equal(t, "growthItems[2].type", v.Field)
	assert.Contains(t, v.Reason, `got "podcast"`)
}

func TestValidateAllCollectsEverything(t *testing.T) {
	raw := `{"growthItems":[{"type":"x","title":"","description":"D"},{"title":"T","description":""},{"type":"book","title":"T","description":"D"}]}`
	vs := ValidateAll(decode(t, raw), GrowthPlan())
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{
		"growthItems[0].type",
		"growthItems[0].title",
		"growthItems[1].type",
		"growthItems[1].description",
	}, fields)
}

func TestExtraKeysIgnored(t *testing.T) {
	s := Object(Required("a", String()))
	assert.NoError(t, Validate(map[string]any{"a": "x", "b": 1}, s))
}
