package recall

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// TF-IDF 向量化默认参数，对齐原始内容模型的配置。
const (
	DefaultMinDocFreq  = 2
	DefaultMaxFeatures = 5000
)

// sparseVec 是稀疏的词项权重向量：列下标 -> tf-idf 权重。
type sparseVec map[int]float64

// sparseDot 计算两个稀疏向量的点积。向量已做 l2 归一化，点积即余弦相似度。
func sparseDot(a, b sparseVec) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, va := range a {
		if vb, ok := b[idx]; ok {
			sum += va * vb
		}
	}
	return sum
}

// tfidfVectorizer 把文本集合映射到词项加权向量空间。
//
// 处理流程：
//  1. 小写切词（字母数字连续段，长度 >= 2）
//  2. 剔除英文停用词
//  3. 生成 unigram + bigram
//  4. 丢弃文档频次 < MinDocFreq 的词项
//  5. 按语料词频截断到 MaxFeatures，词表按字典序编号
//  6. tf·idf（平滑 idf）后逐向量 l2 归一化
//
// 相同输入下词表与向量完全确定。
type tfidfVectorizer struct {
	MinDocFreq  int
	MaxFeatures int

	vocab map[string]int
	idf   []float64
}

func newTFIDFVectorizer() *tfidfVectorizer {
	return &tfidfVectorizer{
		MinDocFreq:  DefaultMinDocFreq,
		MaxFeatures: DefaultMaxFeatures,
	}
}

// tokenize 小写切词：连续的字母/数字为一个 token，单字符丢弃，停用词丢弃。
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() >= 2 {
			tok := b.String()
			if _, stop := englishStopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		b.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// terms 在停用词过滤后的 token 流上生成 unigram + bigram。
func terms(text string) []string {
	tokens := tokenize(text)
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// fit 学习词表并返回每个文档的 l2 归一化 tf-idf 向量。
func (v *tfidfVectorizer) fit(docs []string) []sparseVec {
	minDF := v.MinDocFreq
	if minDF <= 0 {
		minDF = DefaultMinDocFreq
	}
	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	// 每文档词频 + 文档频次 + 语料词频
	docTerms := make([]map[string]float64, len(docs))
	df := make(map[string]int)
	corpusFreq := make(map[string]float64)
	for i, doc := range docs {
		counts := make(map[string]float64)
		for _, t := range terms(doc) {
			counts[t]++
			corpusFreq[t]++
		}
		for t := range counts {
			df[t]++
		}
		docTerms[i] = counts
	}

	// min_df 过滤
	kept := make([]string, 0, len(df))
	for t, n := range df {
		if n >= minDF {
			kept = append(kept, t)
		}
	}

	// max_features 截断：按语料词频降序保留，平手按字典序
	if len(kept) > maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if corpusFreq[kept[i]] != corpusFreq[kept[j]] {
				return corpusFreq[kept[i]] > corpusFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxFeatures]
	}

	// 词表按字典序编号，保证确定性
	sort.Strings(kept)
	v.vocab = make(map[string]int, len(kept))
	for i, t := range kept {
		v.vocab[t] = i
	}

	// 平滑 idf：ln((1+n)/(1+df)) + 1
	n := float64(len(docs))
	v.idf = make([]float64, len(kept))
	for i, t := range kept {
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	// 逐文档 tf·idf + l2 归一化
	vectors := make([]sparseVec, len(docs))
	for i, counts := range docTerms {
		vec := make(sparseVec)
		var norm float64
		for t, tf := range counts {
			idx, ok := v.vocab[t]
			if !ok {
				continue
			}
			w := tf * v.idf[idx]
			vec[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range vec {
				vec[idx] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}
