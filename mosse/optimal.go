package mosse

// optimalSize returns the smallest integer >= n whose only prime factors are 2, 3 and 5.
// Transforms of such lengths run on the fast radix paths.
func optimalSize(n int) int {
	if n <= 1 {
		return 1
	}
	for m := n; ; m++ {
		if isSmooth235(m) {
			return m
		}
	}
}

func isSmooth235(n int) bool {
	if n < 1 {
		return false
	}
	for _, p := range []int{2, 3, 5} {
		for n%p == 0 {
			n /= p
		}
	}
	return n == 1
}
