package doses

import (
	"net/url"
	"strconv"
)

// NavigationIntent es un valor explícito "destino + parámetros". El shell
// que llama decide cómo navegar (routing, render); el core no toca
// globals del browser ni arma redirects por su cuenta.
type NavigationIntent struct {
	Path   string     `json:"path"`
	Params url.Values `json:"params"`
}

// URL codifica el intent como path?query.
func (n NavigationIntent) URL() string {
	if len(n.Params) == 0 {
		return n.Path
	}
	return n.Path + "?" + n.Params.Encode()
}

// ConfirmationPath es la página stateless de confirmación: renderiza solo
// lo que viene en la URL, sin segunda ronda de autorización después de que
// la acción ya se aplicó.
const ConfirmationPath = "/dose/confirm"

// ConfirmationIntent arma el redirect post-acción con parámetros legibles.
func ConfirmationIntent(petName, medicationName string, p Progress, skipped bool) NavigationIntent {
	params := url.Values{}
	params.Set("pet", petName)
	params.Set("medication", medicationName)
	params.Set("given", strconv.Itoa(p.GivenCount))
	params.Set("total", strconv.Itoa(p.TotalCount))
	if p.NextDose != nil {
		params.Set("next", p.NextDose.Label)
	}
	if skipped {
		params.Set("skipped", "1")
	}
	return NavigationIntent{Path: ConfirmationPath, Params: params}
}
