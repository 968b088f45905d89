// Command polyline decodes the polyline field of a directions result.
package main

import (
	"fmt"
	"os"

	"github.com/NERVsystems/navermcp/pkg/geo"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: polyline <encoded_polyline>")
		os.Exit(1)
	}

	points := geo.DecodePolyline(os.Args[1])
	for i, pt := range points {
		fmt.Printf("%d: %s\n", i, pt.String())
	}

	var total float64
	for i := 1; i < len(points); i++ {
		total += geo.Distance(points[i-1], points[i])
	}
	fmt.Printf("points: %d, length: %.0f m\n", len(points), total)
}
