// Package mensualite содержит чистые функции расчёта ежемесячных платежей
// участников проекта. Функции не имеют побочных эффектов и вызываются после
// каждого изменения числа активных участников.
package mensualite

// PerParticipant возвращает ежемесячный платёж одного участника:
// общая стоимость проекта, делённая на длительность в месяцах и на число
// участников. При нулевой длительности или отсутствии участников
// возвращает 0, чтобы исключить деление на ноль.
func PerParticipant(valeurTotale float64, dureeMois, participants int) float64 {
	if dureeMois == 0 || participants <= 0 {
		return 0
	}
	return valeurTotale / float64(participants) / float64(dureeMois)
}

// Totale возвращает суммарный ежемесячный платёж всей группы.
func Totale(valeurTotale float64, dureeMois, participants int) float64 {
	return PerParticipant(valeurTotale, dureeMois, participants) * float64(participants)
}
