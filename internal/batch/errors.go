package batch

import "errors"

var (
	// ErrInvalidWeekRange диапазон недель (или исходная неделя) вне программы
	ErrInvalidWeekRange = errors.New("invalid week range")
	// ErrUnknownAction неизвестная операция
	ErrUnknownAction = errors.New("unknown action kind")
	// ErrInvalidConfig настройки не прошли проверку
	ErrInvalidConfig = errors.New("invalid batch configuration")
	// ErrUnsupportedMode режим принят, но пока не поддерживается
	ErrUnsupportedMode = errors.New("adjustment mode not supported")
	// ErrTransformFailed неожиданный сбой при обходе дерева
	ErrTransformFailed = errors.New("transform failed")
	// ErrInvalidTransition шаг сессии вызван не по порядку
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrEmptyProgram в программе нет недель
	ErrEmptyProgram = errors.New("program has no weeks")
)

// ValidationError отклонённое поле настроек
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
