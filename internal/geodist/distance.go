// Package geodist implements the two distance metrics the game uses:
// the spherical haversine approximation (the historical scoring metric)
// and the WGS84 ellipsoidal inverse geodesic.
package geodist

import "math"

const (
	// EarthRadius is the mean sphere radius used by haversine, in metres.
	EarthRadius = 6_371_000

	// WGS84 ellipsoid parameters.
	wgs84A = 6_378_137.0
	wgs84F = 1 / 298.257223563
	wgs84B = wgs84A * (1 - wgs84F)
)

// Haversine returns the great-circle distance in metres between two
// WGS84 coordinates given in decimal degrees, treating the earth as a
// sphere of radius EarthRadius.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Asin(math.Sqrt(a))
	return EarthRadius * c
}

// Geodesic returns the WGS84 ellipsoidal distance in metres and the
// initial bearing in degrees from point 1 to point 2, via Vincenty's
// inverse formula. Coordinates are decimal degrees. For near-antipodal
// pairs where the iteration does not converge, the last estimate is
// returned; the error there is far below what round scoring can notice.
func Geodesic(lat1, lng1, lat2, lng2 float64) (meters, bearing float64) {
	if lat1 == lat2 && lng1 == lng2 {
		return 0, 0
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	l := (lng2 - lng1) * math.Pi / 180

	u1 := math.Atan((1 - wgs84F) * math.Tan(phi1))
	u2 := math.Atan((1 - wgs84F) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, sinAlpha, cosSqAlpha, cos2SigmaM float64
	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			// Coincident points.
			return 0, 0
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// Equatorial line.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}
		c := wgs84F / 16 * cosSqAlpha * (4 + wgs84F*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*wgs84F*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < 1e-12 {
			break
		}
	}

	uSq := cosSqAlpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	meters = wgs84B * bigA * (sigma - deltaSigma)

	sinLambda, cosLambda := math.Sincos(lambda)
	bearing = math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda) * 180 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	return meters, bearing
}

// GeodesicDistance is Geodesic without the bearing, for symmetry with
// Haversine when a metric is chosen by flag.
func GeodesicDistance(lat1, lng1, lat2, lng2 float64) float64 {
	d, _ := Geodesic(lat1, lng1, lat2, lng2)
	return d
}

// Metric selects which distance function a caller wants.
type Metric int

const (
	// MetricHaversine is the historically-used game metric and the
	// default for round scoring.
	MetricHaversine Metric = iota
	// MetricGeodesic is the more accurate WGS84 metric, the default for
	// point set queries.
	MetricGeodesic
)

// Distance applies the metric to a single coordinate pair.
func (m Metric) Distance(lat1, lng1, lat2, lng2 float64) float64 {
	if m == MetricHaversine {
		return Haversine(lat1, lng1, lat2, lng2)
	}
	return GeodesicDistance(lat1, lng1, lat2, lng2)
}

// BatchDistance computes distances from one target to every coordinate
// pair in lats/lngs, element-wise identical to scalar calls. lats and
// lngs must be the same length.
func (m Metric) BatchDistance(targetLat, targetLng float64, lats, lngs []float64) []float64 {
	out := make([]float64, len(lats))
	for i := range lats {
		out[i] = m.Distance(targetLat, targetLng, lats[i], lngs[i])
	}
	return out
}

// Antipode returns the point diametrically opposite the given coordinate.
func Antipode(lat, lng float64) (antiLat, antiLng float64) {
	antiLat = -lat
	if lng > 0 {
		antiLng = lng - 180
	} else {
		antiLng = lng + 180
	}
	return antiLat, antiLng
}
