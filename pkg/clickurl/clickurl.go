// Пакет clickurl собирает цепочку редиректов (клик-трекеры + лендинг) в один URL.
package clickurl

import "strings"

// EncodeChain - сворачивает список URL справа налево: acc = url + Escape(acc).
// Первый URL остаётся внешним неэкранированным префиксом, каждый следующий
// вложен на один уровень percent-encoding глубже. Пустой список даёт "".
func EncodeChain(urls []string) string {
	acc := ""
	for i := len(urls) - 1; i >= 0; i-- {
		acc = urls[i] + Escape(acc)
	}
	return acc
}

const upperhex = "0123456789ABCDEF"

// Escape - percent-encoding в семантике encodeURIComponent:
// без экранирования остаются только A-Z a-z 0-9 и - _ . ! ~ * ' ( ).
// Кодирование побайтовое (UTF-8), поэтому функция тотальна для любой строки.
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
