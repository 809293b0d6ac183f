package filter

import (
	"strconv"
	"strings"
	"testing"
)

func TestNewMatch_Validation(t *testing.T) {
	if _, err := NewMatch("", "1"); err == nil {
		t.Error("expected error for empty key")
	}
	_, err := NewMatch("candidate_id", "")
	if err == nil {
		t.Fatal("expected error for empty value")
	}
	if !strings.Contains(err.Error(), "candidate_id") {
		t.Errorf("error should name the key, got %q", err.Error())
	}

	c, err := NewMatch("candidate_id", "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != "candidate_id" || c.Match() != "7" {
		t.Errorf("got %s=%s", c.Key(), c.Match())
	}
}

func TestAnyOf_BuildsShouldGroup(t *testing.T) {
	e, err := AnyOf("candidate_id", []string{"3", "1", "3", "", "9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.Must()) != 0 || len(e.MustNot()) != 0 {
		t.Error("AnyOf must only fill the should group")
	}

	var got []string
	for _, c := range e.Should() {
		got = append(got, c.Match())
	}
	if strings.Join(got, ",") != "3,1,9" {
		t.Errorf("expected deduplicated values in input order, got %v", got)
	}
}

func TestAnyOf_EmptyIsEmpty(t *testing.T) {
	e, err := AnyOf("candidate_id", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.IsEmpty() {
		t.Error("expected empty expression")
	}
}

func TestAnyOf_TooMany(t *testing.T) {
	ids := make([]string, MaxConditionsPerGroup+1)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	if _, err := AnyOf("candidate_id", ids); err == nil {
		t.Error("expected error above the group limit")
	}
}

func TestNewExpression_Limits(t *testing.T) {
	c, _ := NewMatch("k", "v")
	over := make([]Condition, MaxConditionsPerGroup+1)
	for i := range over {
		over[i] = c
	}

	if _, err := NewExpression(over, nil, nil); err == nil {
		t.Error("expected must overflow error")
	}
	if _, err := NewExpression(nil, over, nil); err == nil {
		t.Error("expected should overflow error")
	}
	if _, err := NewExpression(nil, nil, over); err == nil {
		t.Error("expected must_not overflow error")
	}
}
