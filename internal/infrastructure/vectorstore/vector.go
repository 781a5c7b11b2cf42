package vectorstore

import "math"

// Normalize scales vec to unit length in place. Zero vectors are left as-is.
func Normalize(vec []float64) {
	magnitude := Magnitude(vec)
	if magnitude == 0 || math.IsNaN(magnitude) {
		return
	}
	for i := range vec {
		vec[i] /= magnitude
	}
}

func Magnitude(vec []float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Dot is the cosine similarity of two unit vectors.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float64
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}
