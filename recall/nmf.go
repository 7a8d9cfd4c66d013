package recall

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// nmfEpsilon 防止乘法更新中的除零。
const nmfEpsilon = 1e-9

// nmf 对非负矩阵 V (n×m) 做秩 k 的非负分解：V ≈ W·H。
// 采用经典的乘法更新规则（Lee & Seung），固定迭代轮数：
//
//	H <- H .* (Wᵀ·V) ./ (Wᵀ·W·H + ε)
//	W <- W .* (V·Hᵀ) ./ (W·H·Hᵀ + ε)
//
// W、H 用固定 seed 的均匀随机数初始化，相同输入与 seed 下结果完全可复现。
// k 会被钳制到 min(k, n, m)，避免退化维度。
func nmf(v *mat.Dense, k int, iterations int, seed int64) (w, h *mat.Dense) {
	n, m := v.Dims()
	if k > n {
		k = n
	}
	if k > m {
		k = m
	}

	rng := rand.New(rand.NewSource(seed))
	w = randomDense(n, k, rng)
	h = randomDense(k, m, rng)

	var (
		wtv  = mat.NewDense(k, m, nil)
		wtwh = mat.NewDense(k, m, nil)
		wtw  = mat.NewDense(k, k, nil)
		vht  = mat.NewDense(n, k, nil)
		whht = mat.NewDense(n, k, nil)
		hht  = mat.NewDense(k, k, nil)
	)

	for iter := 0; iter < iterations; iter++ {
		// H 更新
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		wtwh.Mul(wtw, h)
		addEpsilon(wtwh)
		h.MulElem(h, wtv)
		h.DivElem(h, wtwh)

		// W 更新
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		whht.Mul(w, hht)
		addEpsilon(whht)
		w.MulElem(w, vht)
		w.DivElem(w, whht)
	}

	return w, h
}

func randomDense(r, c int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(r, c, data)
}

func addEpsilon(d *mat.Dense) {
	d.Apply(func(_, _ int, v float64) float64 { return v + nmfEpsilon }, d)
}
