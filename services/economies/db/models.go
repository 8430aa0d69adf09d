package db

type CountriesByGdp struct {
	Country       string
	GdpUsdBillion float64
}
