// Package i18n translates the messages the control API returns to the
// hosting page.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when no supported language is requested.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the header the locale is negotiated from.
	AcceptLanguageHeader = "Accept-Language"
)

type catalog map[string]string

var catalogs = map[string]catalog{
	"en": {
		ErrKeyInvalidRequestBody:    "Invalid request body",
		ErrKeyInternalError:         "An unexpected error occurred",
		ErrKeyRateLimitExceeded:     "Too many requests, please try again later",
		ErrKeyInstallFailed:         "Offline resources could not be cached",
		ErrKeyNotInstalled:          "The offline cache is not installed yet",
		ErrKeyOffline:               "You are offline and this resource is not cached",
		ErrKeyPayloadTooLarge:       "Request body is too large",
		ErrKeyUpstreamTooLarge:      "The upstream response is too large to proxy",
		ErrKeyNotificationNotFound:  "Notification not found",
		ErrKeyValidationTag:         "tag: is required",
		ErrKeyValidationMessageType: "type: is required",
		ErrKeyValidationURL:         "url: is required",
		SuccessKeyInstalled:         "Offline cache installed",
		SuccessKeyActivated:         "Offline cache activated",
		SuccessKeyMessageAccepted:   "Message accepted",
	},
	"pt": {
		ErrKeyInvalidRequestBody:    "Corpo da requisição inválido",
		ErrKeyInternalError:         "Ocorreu um erro inesperado",
		ErrKeyRateLimitExceeded:     "Muitas requisições, tente novamente mais tarde",
		ErrKeyInstallFailed:         "Não foi possível armazenar os recursos offline",
		ErrKeyNotInstalled:          "O cache offline ainda não foi instalado",
		ErrKeyOffline:               "Você está offline e este recurso não está em cache",
		ErrKeyPayloadTooLarge:       "Corpo da requisição grande demais",
		ErrKeyUpstreamTooLarge:      "A resposta do servidor de origem é grande demais",
		ErrKeyNotificationNotFound:  "Notificação não encontrada",
		ErrKeyValidationTag:         "tag: é obrigatória",
		ErrKeyValidationMessageType: "type: é obrigatório",
		ErrKeyValidationURL:         "url: é obrigatória",
		SuccessKeyInstalled:         "Cache offline instalado",
		SuccessKeyActivated:         "Cache offline ativado",
		SuccessKeyMessageAccepted:   "Mensagem aceita",
	},
	"nl": {
		ErrKeyInvalidRequestBody:    "Ongeldige aanvraag body",
		ErrKeyInternalError:         "Er is een onverwachte fout opgetreden",
		ErrKeyRateLimitExceeded:     "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyInstallFailed:         "Offline bronnen konden niet worden opgeslagen",
		ErrKeyNotInstalled:          "De offline cache is nog niet geïnstalleerd",
		ErrKeyOffline:               "Je bent offline en deze bron staat niet in de cache",
		ErrKeyPayloadTooLarge:       "Aanvraag body is te groot",
		ErrKeyUpstreamTooLarge:      "Het antwoord van de upstream is te groot",
		ErrKeyNotificationNotFound:  "Melding niet gevonden",
		ErrKeyValidationTag:         "tag: is verplicht",
		ErrKeyValidationMessageType: "type: is verplicht",
		ErrKeyValidationURL:         "url: is verplicht",
		SuccessKeyInstalled:         "Offline cache geïnstalleerd",
		SuccessKeyActivated:         "Offline cache geactiveerd",
		SuccessKeyMessageAccepted:   "Bericht geaccepteerd",
	},
}

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator resolves message keys per locale.
type Translator struct {
	catalogs map[string]catalog
}

// NewTranslator creates a translator over the built-in catalogs.
func NewTranslator() *Translator {
	return &Translator{catalogs: catalogs}
}

// GetTranslator returns the shared translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.catalogs[locale][key]; ok {
		return msg
	}
	if msg, ok := t.catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether a catalog exists for locale.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.catalogs[locale]
	return ok
}

// GetLocale negotiates the locale from Accept-Language: the highest-weighted
// supported base language wins, ties keep header order.
func GetLocale(c *gin.Context) string {
	return Negotiate(c.GetHeader(AcceptLanguageHeader))
}

// Negotiate picks a supported locale from an Accept-Language value.
func Negotiate(acceptLanguage string) string {
	type candidate struct {
		lang string
		q    float64
	}

	var candidates []candidate
	for _, part := range strings.Split(acceptLanguage, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		lang := strings.ToLower(strings.TrimSpace(fields[0]))
		if i := strings.IndexByte(lang, '-'); i > 0 {
			lang = lang[:i]
		}
		if lang == "" {
			continue
		}

		q := 1.0
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if v, ok := strings.CutPrefix(param, "q="); ok {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil {
					q = parsed
				}
			}
		}
		if q > 0 {
			candidates = append(candidates, candidate{lang: lang, q: q})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].q > candidates[j].q })

	t := GetTranslator()
	for _, cand := range candidates {
		if t.Supports(cand.lang) {
			return cand.lang
		}
	}
	return DefaultLocale
}
