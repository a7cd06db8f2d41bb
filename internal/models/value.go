package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value поле подхода: число или текст вроде "AMRAP" или "8-10".
// Нулевое значение означает отсутствие.
type Value struct {
	Num  *float64
	Text string
}

// Number числовое значение
func Number(f float64) Value {
	return Value{Num: &f}
}

// Text текстовое значение
func Text(s string) Value {
	return Value{Text: s}
}

// Float число и признак его наличия
func (v Value) Float() (float64, bool) {
	if v.Num == nil {
		return 0, false
	}
	return *v.Num, true
}

// IsNumeric хранится ли число
func (v Value) IsNumeric() bool {
	return v.Num != nil
}

// Copy копия без общего указателя на число
func (v Value) Copy() Value {
	if v.Num == nil {
		return Value{Text: v.Text}
	}
	return Number(*v.Num)
}

// String для сообщений и выгрузок
func (v Value) String() string {
	if v.Num != nil {
		return strconv.FormatFloat(*v.Num, 'f', -1, 64)
	}
	return v.Text
}

// ParseValue разбирает ввод: числа становятся числами, остальное текстом.
// Запятая в дробях допускается ("22,5").
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
		return Number(f)
	}
	return Text(s)
}

// MarshalJSON число как JSON number, текст как строка, пустое как null
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.Num != nil:
		return json.Marshal(*v.Num)
	case v.Text != "":
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON принимает число, строку или null
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid value %s: %w", data, err)
		}
		*v = ParseValue(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid value %s: %w", data, err)
	}
	*v = Number(f)
	return nil
}
