package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNickname_BlankInputHasNoConditions(t *testing.T) {
	for _, input := range []string{"", " ", "\t", "  \n "} {
		c := ByNickname(input)
		assert.True(t, c.IsEmpty(), "input %q", input)
		assert.Empty(t, c.Conditions(), "input %q", input)
	}
}

func TestByNickname_NonBreakingSpaceIsAFilter(t *testing.T) {
	assert.True(t, ByNickname("\u3000\u2003 ").IsEmpty())

	for _, input := range []string{"\u00a0", " \u00a0 ", "\u202f"} {
		c := ByNickname(input)
		assert.False(t, c.IsEmpty(), "input %q", input)
		assert.Equal(t, input, c.Conditions()[0].Value)
	}

	c := ByNickname("\u00a0")
	assert.False(t, c.Matches(&Member{Nickname: "Rann"}))
	assert.True(t, c.Matches(&Member{Nickname: "Ra\u00a0nn"}))
}

func TestByNickname_TokenIsNotTrimmed(t *testing.T) {
	c := ByNickname(" ann ")

	conds := c.Conditions()
	assert.Len(t, conds, 1)
	assert.Equal(t, Condition{Field: FieldNickname, Operator: OpContainsFold, Value: " ann "}, conds[0])

	assert.False(t, c.Matches(&Member{Nickname: "annRan"}))
	assert.True(t, c.Matches(&Member{Nickname: "x ANN y"}))
}

func TestCriteria_ConditionsReturnsCopy(t *testing.T) {
	c := ByNickname("ann")

	conds := c.Conditions()
	conds[0].Value = "bob"

	assert.Equal(t, "ann", c.Conditions()[0].Value)
}

func TestCriteria_Matches(t *testing.T) {
	c := ByNickname("ann")

	assert.True(t, c.Matches(&Member{Nickname: "Rann"}))
	assert.True(t, c.Matches(&Member{Nickname: "annRan"}))
	assert.True(t, c.Matches(&Member{Nickname: "ANNA"}))
	assert.False(t, c.Matches(&Member{Nickname: "Bob"}))

	assert.True(t, ByNickname("").Matches(&Member{Nickname: "Bob"}))
}

func TestCondition_UnknownFieldNeverMatches(t *testing.T) {
	cond := Condition{Field: "email", Operator: OpContainsFold, Value: "a"}
	assert.False(t, cond.Matches(&Member{Nickname: "a", Email: "a@b.c"}))
}
