package member

import (
	"strings"
	"unicode"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH CRITERIA
// Поиск участников строится как конъюнкция из нуля или более условий.
// Хранилище переводит условия в свой язык запросов и всегда сортирует
// результат по ID по убыванию.
// ══════════════════════════════════════════════════════════════════════════════

// Field - поле участника, по которому можно фильтровать.
type Field string

const (
	// FieldNickname - никнейм участника.
	FieldNickname Field = "nickname"
)

// Operator - оператор сравнения в условии.
type Operator string

const (
	// OpContainsFold - подстрока без учёта регистра.
	OpContainsFold Operator = "contains_fold"
)

// Condition - одно условие фильтра.
type Condition struct {
	Field    Field
	Operator Operator
	Value    string
}

// Matches проверяет условие для участника в памяти.
// Регистр сравнивается через strings.ToLower; хранилища используют свои операторы.
func (c Condition) Matches(m *Member) bool {
	var actual string
	switch c.Field {
	case FieldNickname:
		actual = m.Nickname
	default:
		return false
	}

	switch c.Operator {
	case OpContainsFold:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(c.Value))
	default:
		return false
	}
}

// Criteria - неизменяемый набор условий поиска, объединённых через AND.
type Criteria struct {
	conditions []Condition
}

// ByNickname строит критерии поиска по никнейму.
// Пустая строка или строка из пробелов не добавляет условий.
// Непустое значение используется как есть, без обрезки пробелов.
func ByNickname(nickname string) Criteria {
	var conds []Condition
	if !isBlank(nickname) {
		conds = append(conds, Condition{
			Field:    FieldNickname,
			Operator: OpContainsFold,
			Value:    nickname,
		})
	}
	return Criteria{conditions: conds}
}

// Conditions возвращает копию условий.
func (c Criteria) Conditions() []Condition {
	out := make([]Condition, len(c.conditions))
	copy(out, c.conditions)
	return out
}

// IsEmpty возвращает true, если фильтр не задан.
func (c Criteria) IsEmpty() bool {
	return len(c.conditions) == 0
}

// Matches проверяет все условия (AND).
func (c Criteria) Matches(m *Member) bool {
	for _, cond := range c.conditions {
		if !cond.Matches(m) {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, isBlankRune) == ""
}

// isBlankRune - пробельный символ. Неразрывные пробелы считаются частью
// никнейма и не делают строку пустой.
func isBlankRune(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	case '\t', '\n', '\v', '\f', '\r', '\u001c', '\u001d', '\u001e', '\u001f':
		return true
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}
