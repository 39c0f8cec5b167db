package google

import "strings"

// supported lists the target codes the web endpoint translates into.
var supported = map[string]bool{
	"af": true, "am": true, "ar": true, "az": true, "be": true, "bg": true,
	"bn": true, "bs": true, "ca": true, "ceb": true, "co": true, "cs": true,
	"cy": true, "da": true, "de": true, "el": true, "en": true, "eo": true,
	"es": true, "et": true, "eu": true, "fa": true, "fi": true, "fr": true,
	"fy": true, "ga": true, "gd": true, "gl": true, "gu": true, "ha": true,
	"haw": true, "he": true, "hi": true, "hmn": true, "hr": true, "ht": true,
	"hu": true, "hy": true, "id": true, "ig": true, "is": true, "it": true,
	"iw": true, "ja": true, "jw": true, "ka": true, "kk": true, "km": true,
	"kn": true, "ko": true, "ku": true, "ky": true, "la": true, "lb": true,
	"lo": true, "lt": true, "lv": true, "mg": true, "mi": true, "mk": true,
	"ml": true, "mn": true, "mr": true, "ms": true, "mt": true, "my": true,
	"ne": true, "nl": true, "no": true, "ny": true, "or": true, "pa": true,
	"pl": true, "ps": true, "pt": true, "ro": true, "ru": true, "sd": true,
	"si": true, "sk": true, "sl": true, "sm": true, "sn": true, "so": true,
	"sq": true, "sr": true, "st": true, "su": true, "sv": true, "sw": true,
	"ta": true, "te": true, "tg": true, "th": true, "tl": true, "tr": true,
	"ug": true, "uk": true, "ur": true, "uz": true, "vi": true, "xh": true,
	"yi": true, "yo": true, "zh-cn": true, "zh-tw": true, "zu": true,
}

var aliases = map[string]string{
	"ee": "et",
	"zh": "zh-cn",
	"jv": "jw",
	"nb": "no",
}

// normalizeTarget maps a requested language onto a supported code. The
// second result is false when the endpoint cannot translate into it.
func normalizeTarget(lang string) (string, bool) {
	code := strings.ToLower(strings.TrimSpace(lang))
	code = strings.Replace(code, "_", "-", 1)
	if supported[code] {
		return code, true
	}
	if base, _, found := strings.Cut(code, "-"); found {
		code = base
	}
	if alias, ok := aliases[code]; ok {
		code = alias
	}
	return code, supported[code]
}
