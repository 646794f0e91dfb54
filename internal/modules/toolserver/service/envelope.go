package service

import "mudrex_agent/internal/apierr"

// ErrorBody — сериализуемое тело классифицированной ошибки. Собирается
// только из apierr.Classify: сырой отказ через границу не проходит.
type ErrorBody struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Retriable  bool   `json:"retriable"`
}

// Envelope — единый конверт ответа инструмента: либо {ok:true, data},
// либо {ok:false, error}.
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

func Success(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

func Failure(err error) Envelope {
	ce := apierr.Classify(err)
	return Envelope{
		OK: false,
		Error: &ErrorBody{
			Kind:       string(ce.Kind),
			Message:    ce.Message,
			Suggestion: ce.Suggestion,
			Retriable:  ce.Retriable,
		},
	}
}
