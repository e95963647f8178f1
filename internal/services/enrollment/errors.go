package enrollment

import "errors"

// Ожидаемые исходы workflow. Все они возвращаются как значения и
// сопоставляются обработчиками с HTTP-статусами; до обработчика паники
// не доходят.
var (
	// ErrValidation — отсутствующее или некорректное входное поле.
	ErrValidation = errors.New("validation error")
	// ErrNotFound — проект или пользователь не существует.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken — email уже занят другим пользователем.
	ErrEmailTaken = errors.New("email already in use")
	// ErrSessionExpired — сессия не содержит ожидаемой незавершённой
	// регистрации: записи нет, ордер не совпадает или запись старше окна
	// жизни. Регистрацию нужно начинать заново.
	ErrSessionExpired = errors.New("session expired")
	// ErrPaymentNotCompleted — шлюз вернул статус, отличный от COMPLETED.
	// Незавершённая регистрация при этом сохраняется: callback может
	// легитимно повториться.
	ErrPaymentNotCompleted = errors.New("payment not completed")
	// ErrAfterCapture — средства списаны, но один из последующих шагов
	// не удался. Незавершённая регистрация намеренно сохраняется для
	// ручного разбора: автоматического возврата средств у шлюза нет.
	ErrAfterCapture = errors.New("post-capture processing failed")
)
