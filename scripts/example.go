package main

import (
	"fmt"
	"log"

	"github.com/kass/go-geo-fence/pkg/fence"
	"github.com/kass/go-geo-fence/pkg/models"
	"github.com/kass/go-geo-fence/pkg/record"
	"github.com/kass/go-geo-fence/pkg/transform"
)

func loc(lng, lat string) *models.Location {
	l := models.NewLocation(lng, lat)
	return &l
}

func main() {
	// Sample shops around central Chengdu
	shops := []record.Record{
		{"id": "TFS", "name": "Tianfu Square", "lng": "104.0657", "lat": "30.6574"},
		{"id": "CXL", "name": "Chunxi Road", "lng": "104.0781", "lat": "30.6546"},
		{"id": "KZX", "name": "Kuanzhai Alley", "lng": "104.0536", "lat": "30.6637"},
		{"id": "WHS", "name": "Wenshu Monastery", "lng": "104.0724", "lat": "30.6758"},
		{"id": "JLI", "name": "Jinli Street", "lng": "104.0477", "lat": "30.6460"},
		{"id": "TFC", "name": "Tianfu Software Park", "lng": "104.0689", "lat": "30.5442"},
		{"id": "ERD", "name": "East Railway Station", "lng": "104.1407", "lat": "30.6290"},
		{"id": "NOL", "name": "no coordinates"},
	}
	adapter := record.Maps(record.DefaultFields)

	// Example 1: shops inside the inner ring road (convex hull of its corners)
	fmt.Println("=== Shops inside the inner ring ===")
	ring := []*models.Location{
		loc("104.0408", "30.6836"), loc("104.0959", "30.6836"),
		loc("104.0959", "30.6371"), loc("104.0408", "30.6371"),
		loc("104.0700", "30.6600"),
	}
	inside, err := adapter.RecordsInRegion(ring, shops)
	if err != nil {
		log.Fatal(err)
	}
	for _, shop := range inside {
		fmt.Printf("  - %s: %s\n", shop["id"], shop["name"])
	}

	// Example 2: single point checks
	fmt.Println("\n=== Point checks ===")
	ok, err := fence.PointInRegion(ring, "104.0657", "30.6574")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Tianfu Square inside the ring: %t\n", ok)

	circle := models.NewRoundness(models.NewLocation("104.0657", "30.6574"), "1500")
	ok, err = fence.PointInCircle(circle, "104.0781", "30.6546")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Chunxi Road within 1.5km of Tianfu Square: %t\n", ok)

	// Example 3: shops near metro line 1 stations
	fmt.Println("\n=== Shops within 800m of a line 1 station ===")
	line1 := []*models.Location{
		loc("104.0714", "30.6946"), loc("104.0673", "30.6696"),
		loc("104.0657", "30.6574"), loc("104.0659", "30.6333"),
		loc("104.0667", "30.6020"), loc("104.0689", "30.5442"),
	}
	near, err := adapter.RecordsWithinDistanceOfCurve(line1, shops, "800")
	if err != nil {
		log.Fatal(err)
	}
	for _, shop := range near {
		d, err := fence.DistanceToCurve(line1, shop["lng"].(string), shop["lat"].(string))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("  - %s: %.0f m from the nearest station\n", shop["id"], d)
	}

	// Example 4: distance between two records
	fmt.Println("\n=== Distance ===")
	d, err := adapter.DistanceBetween(shops[0], shops[6])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Tianfu Square to East Railway Station: %.1f km\n", d/1000)

	// Example 5: map coordinates from Baidu (BD09) back to GPS (WGS84)
	fmt.Println("\n=== Coordinate systems ===")
	lng, lat, err := transform.Convert(104.0722, 30.6631, transform.BD09, transform.WGS84)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("BD09 (104.0722, 30.6631) -> WGS84 (%.6f, %.6f)\n", lng, lat)
}
