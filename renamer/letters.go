package renamer

// NumberToLetters returns bijective base-26 name of n: 0 -> "a", 25 -> "z",
// 26 -> "aa", 701 -> "zz", 702 -> "aaa".
func NumberToLetters(n int) string {
	if n < 0 {
		return ""
	}

	var buf [16]byte
	i := len(buf)
	for n++; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('a' + (n-1)%26)
	}
	return string(buf[i:])
}
