// Package values holds the value producers module tables draw arguments
// from. Every function returns a random.Producer resolved at Pick time.
package values

import (
	"strconv"
	"strings"

	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/script"
)

var boundaryNumbers = []string{
	"0", "-0", "1", "-1", "2", "8", "16", "32", "64", "100",
	"127", "128", "255", "256", "1024", "4096", "65535", "65536",
	"2147483647", "-2147483648", "4294967295", "4294967296",
	"Number.MAX_VALUE", "Number.MIN_VALUE", "Number.MAX_SAFE_INTEGER",
	"Infinity", "-Infinity", "NaN", "0.5", "-0.5",
}

// Number draws boundary values, small integers and floats in a 3:3:2 mix.
func Number() random.Producer {
	boundary := random.Strings(boundaryNumbers...)
	return random.Generator(func(s *random.Source) random.Producer {
		return random.Literal(s.Choose([]random.Weighted[random.Producer]{
			random.W(3, boundary),
			random.W(3, Integer(-1024, 1024)),
			random.W(2, Float()),
		}))
	})
}

// Integer draws a decimal integer in [lo, hi].
func Integer(lo, hi int) random.Producer {
	return random.Func(func(s *random.Source) string {
		return strconv.Itoa(s.IntRange(lo, hi))
	})
}

// Float draws a float in [0, 1000) rendered with the shortest exact form.
func Float() random.Producer {
	return random.Func(func(s *random.Source) string {
		return FormatFloat(s.Float64() * 1000)
	})
}

// Unit draws a float in [0, 1).
func Unit() random.Producer {
	return random.Func(func(s *random.Source) string {
		return FormatFloat(s.Float64())
	})
}

// FormatFloat renders f the way a script literal would spell it.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Bool draws "true" or "false".
func Bool() random.Producer {
	return random.Strings("true", "false")
}

const textAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 \t\n<>&\"'\\/é中\U0001F600"

// Text draws an unquoted string of 0 to 32 characters.
func Text() random.Producer {
	alphabet := []rune(textAlphabet)
	return random.Func(func(s *random.Source) string {
		n := s.IntRange(0, 32)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(alphabet[s.Number(len(alphabet))])
		}
		return b.String()
	})
}

// MimeType draws an unquoted MIME type.
func MimeType() random.Producer {
	return random.Strings(
		"image/png", "image/jpeg", "image/webp", "image/gif", "image/bmp",
		"image/svg+xml", "text/plain", "application/octet-stream", "",
	)
}

// Color draws an unquoted CSS color.
func Color() random.Producer {
	named := random.Strings("red", "transparent", "currentColor", "black", "inherit")
	hex := random.Func(func(s *random.Source) string {
		return "#" + strconv.FormatUint(uint64(s.Uint32()&0xffffff)|0x1000000, 16)[1:]
	})
	rgba := random.Func(func(s *random.Source) string {
		return "rgba(" + strconv.Itoa(s.Number(256)) + "," + strconv.Itoa(s.Number(256)) + "," +
			strconv.Itoa(s.Number(256)) + "," + FormatFloat(s.Float64()) + ")"
	})
	return random.OneOf(named, hex, rgba)
}

// Image draws an unquoted image URL, mostly small data URIs.
func Image() random.Producer {
	return random.Strings(
		"data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7",
		"data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==",
		"data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' width='8' height='8'/>",
		"missing.png",
	)
}

// Video draws an unquoted video URL.
func Video() random.Producer {
	return random.Strings("media/video.webm", "media/video.ogv", "media/video.mp4", "data:video/webm;base64,")
}

// Tiny draws a small integer in [0, 8], for arguments where large values
// only produce early-out paths.
func Tiny() random.Producer {
	return Integer(0, 8)
}

// Quoted resolves p and renders the result as a string literal.
func Quoted(p random.Producer) random.Producer {
	return random.Func(func(s *random.Source) string {
		return script.Quote(s.Pick(p))
	})
}

// QuotedText is Quoted(Text()).
func QuotedText() random.Producer {
	return Quoted(Text())
}
