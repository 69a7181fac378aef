package domain

// RatingAggregate накопленная сумма и количество оценок провайдера.
// Average() совпадает с MeanRating по всем оценкам.
type RatingAggregate struct {
	Sum   int64
	Count int64
}

// Add учитывает новую оценку
func (a RatingAggregate) Add(rating int) RatingAggregate {
	return RatingAggregate{Sum: a.Sum + int64(rating), Count: a.Count + 1}
}

// Average среднее без весов; 0 при отсутствии оценок
func (a RatingAggregate) Average() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

// MeanRating пересчет среднего по полному списку оценок
func MeanRating(ratings []int) float64 {
	agg := RatingAggregate{}
	for _, r := range ratings {
		agg = agg.Add(r)
	}
	return agg.Average()
}
