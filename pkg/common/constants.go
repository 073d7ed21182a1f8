package common

const (
	RedisStreamNewsIngest     = "analysis.news.ingest"
	RedisStreamSentiment      = "analysis.sentiment"
	RedisStreamQuantitative   = "analysis.quantitative"
	RedisStreamRecommendation = "analysis.recommendation"

	RedisStreamGroup    = "analyzer-group"
	RedisStreamConsumer = "analyzer-consumer"
)
