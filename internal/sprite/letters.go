package sprite

import "strings"

// LettersToIndex reads letters as a bijective base-26 number: "" is 0,
// "a" is 1, "z" is 26, "aa" is 27. Letters are ASCII, either case.
func LettersToIndex(letters string) int {
	index := 0
	for _, c := range strings.ToLower(letters) {
		index = index*26 + int(c-'a'+1)
	}
	return index
}

// IndexToLetters is the inverse of LettersToIndex. n <= 0 yields "".
func IndexToLetters(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('a'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
