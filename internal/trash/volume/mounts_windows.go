//go:build windows

package volume

// mountPoints returns drive roots on Windows; mount namespaces do not
// apply there.
func mountPoints() ([]string, error) {
	var points []string
	for c := 'A'; c <= 'Z'; c++ {
		points = append(points, string(c)+`:\`)
	}
	return points, nil
}
