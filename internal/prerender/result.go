// Пакет prerender — build-time генератор social-preview страниц.
// Для каждой записи каталога пишет копию собранного index.html
// с подставленными <title>, Open Graph и Twitter Card тегами.
// Шаг best-effort: любая ошибка, кроме отсутствия шаблона, завершается мягким пропуском.
package prerender

// Outcome — итог запуска генератора.
type Outcome int

const (
	// OutcomeWritten — цикл по записям выполнен (возможно, с пропусками отдельных записей).
	OutcomeWritten Outcome = iota
	// OutcomeSkipped — шаг пропущен без ошибки сборки.
	OutcomeSkipped
	// OutcomeFailed — шаг завершился ошибкой, сборка должна упасть.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason — причина пропуска или ошибки.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonConfigMissing — не задан URL BaaS или ключ доступа.
	ReasonConfigMissing
	// ReasonNetworkFailure — BaaS недоступен (транспортная ошибка).
	ReasonNetworkFailure
	// ReasonBackendStatus — BaaS ответил статусом вне 2xx.
	ReasonBackendStatus
	// ReasonEmptyResult — список пуст или ответ не является списком.
	ReasonEmptyResult
	// ReasonTemplateMissing — нет <dist>/index.html: сборка сайта не выполнялась.
	ReasonTemplateMissing
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonConfigMissing:
		return "config_missing"
	case ReasonNetworkFailure:
		return "network_failure"
	case ReasonBackendStatus:
		return "backend_status"
	case ReasonEmptyResult:
		return "empty_result"
	case ReasonTemplateMissing:
		return "template_missing"
	default:
		return "unknown"
	}
}

// Result — результат запуска генератора.
type Result struct {
	Outcome Outcome
	Reason  Reason
	// Written — количество записанных документов
	Written int
	// Skipped — количество записей, пропущенных в цикле
	Skipped int
	// Err — исходная ошибка (для логов), nil при успехе
	Err error
}

// ExitCode возвращает код завершения процесса: 1 только при отсутствии шаблона.
func (r Result) ExitCode() int {
	if r.Reason == ReasonTemplateMissing {
		return 1
	}
	return 0
}

func skipped(reason Reason, err error) Result {
	return Result{Outcome: OutcomeSkipped, Reason: reason, Err: err}
}
