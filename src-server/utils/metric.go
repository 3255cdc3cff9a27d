package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	FeedFetch     chan float64
	FeedError     chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		FeedFetch:     make(chan float64),
		FeedError:     make(chan float64),
	}
}
