package analytics

import (
	"math"
	"strings"
)

// SentimentResult 是单条文本的情感分析结果。
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// sentimentLexicon 是词级情感词典，取值范围大致 [-4, 4]。
var sentimentLexicon = map[string]float64{
	"amazing":       3.2,
	"awesome":       3.1,
	"great":         3.0,
	"excellent":     3.2,
	"fantastic":     3.1,
	"incredible":    2.9,
	"perfect":       3.0,
	"love":          2.8,
	"loved":         2.8,
	"best":          3.0,
	"good":          1.9,
	"nice":          1.8,
	"enjoyable":     2.0,
	"enjoyed":       2.1,
	"fun":           2.3,
	"happy":         2.2,
	"recommend":     1.9,
	"worth":         1.5,
	"affordable":    1.4,
	"cheap":         0.8,
	"friendly":      1.9,
	"smooth":        1.5,
	"clean":         1.2,
	"comfortable":   1.6,
	"unforgettable": 2.6,
	"bad":           -2.5,
	"terrible":      -3.1,
	"awful":         -3.0,
	"horrible":      -3.1,
	"worst":         -3.2,
	"hate":          -2.7,
	"hated":         -2.7,
	"boring":        -2.0,
	"disappointing": -2.3,
	"disappointed":  -2.2,
	"expensive":     -1.3,
	"overpriced":    -2.0,
	"crowded":       -1.2,
	"rude":          -2.4,
	"dirty":         -1.8,
	"slow":          -1.2,
	"poor":          -2.1,
	"mediocre":      -1.5,
	"waste":         -2.4,
	"broken":        -1.9,
	"loud":          -0.6,
	"chaotic":       -1.8,
	"disorganized":  -2.2,
	"uncomfortable": -1.7,
}

// negationWords 反转后续情感词的极性。
var negationWords = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "isnt": {}, "wasnt": {},
	"dont": {}, "didnt": {}, "doesnt": {}, "cant": {}, "couldnt": {}, "wont": {},
}

// aspectKeywords 是方面级情感分析的关键词表。
var aspectKeywords = map[string][]string{
	"price":        {"price", "cost", "expensive", "cheap", "affordable", "worth"},
	"venue":        {"venue", "location", "place", "stadium", "arena", "hall"},
	"lineup":       {"lineup", "artist", "performer", "band", "dj", "musician"},
	"organization": {"organized", "staff", "service", "management", "crowd"},
	"sound":        {"sound", "audio", "acoustics", "volume", "music"},
	"experience":   {"experience", "time", "enjoyed", "fun", "boring", "great"},
}

// AnalyzeSentiment 基于情感词典对文本做极性分析。
//
// 算法流程：
//  1. 分词后查词典累加情感值，前一个词是否定词时极性取反
//  2. 归一化到 [-1, 1]
//  3. >= 0.05 为正面，<= -0.05 为负面，其余为中性
func AnalyzeSentiment(text string) SentimentResult {
	if strings.TrimSpace(text) == "" {
		return SentimentResult{Sentiment: "neutral"}
	}

	words := sentimentTokens(text)
	var sum float64
	for i, w := range words {
		valence, ok := sentimentLexicon[w]
		if !ok {
			continue
		}
		if i > 0 {
			if _, neg := negationWords[words[i-1]]; neg {
				valence = -valence
			}
		}
		sum += valence
	}

	// 与 VADER 相同的归一化，把无界的累加值压到 [-1, 1]
	score := sum / math.Sqrt(sum*sum+15)
	score = math.Round(score*10000) / 10000

	sentiment := "neutral"
	switch {
	case score >= 0.05:
		sentiment = "positive"
	case score <= -0.05:
		sentiment = "negative"
	}
	return SentimentResult{Sentiment: sentiment, Score: score, Confidence: math.Abs(score)}
}

// AnalyzeSentimentBatch 逐条分析一批文本。
func AnalyzeSentimentBatch(texts []string) []SentimentResult {
	out := make([]SentimentResult, 0, len(texts))
	for _, t := range texts {
		out = append(out, AnalyzeSentiment(t))
	}
	return out
}

// ExtractAspects 做关键词驱动的方面级情感分析：
// 对每个方面找到首个含关键词的句子并分析其极性。
func ExtractAspects(text string) map[string]SentimentResult {
	lower := strings.ToLower(text)
	sentences := strings.Split(lower, ".")

	out := make(map[string]SentimentResult)
	for aspect, keywords := range aspectKeywords {
		for _, kw := range keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			for _, sentence := range sentences {
				if strings.Contains(sentence, kw) {
					out[aspect] = AnalyzeSentiment(sentence)
					break
				}
			}
			break
		}
	}
	return out
}

func sentimentTokens(text string) []string {
	lower := strings.ToLower(text)
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range lower {
		if r >= 'a' && r <= 'z' {
			cur.WriteRune(r)
			continue
		}
		// 撇号直接丢弃，让 "don't" 归一成 "dont"
		if r == '\'' {
			continue
		}
		flush()
	}
	flush()
	return tokens
}
