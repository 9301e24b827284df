// Package gen 提供压测用随机点生成
package gen

import (
	"fmt"
	"math/rand"

	"github.com/ic-timon/ballindex/indexer"
)

// RandomPoints 生成 n 个 dim 维、各分量均匀分布于 [-1, 1) 的随机点
func RandomPoints(n, dim int, seed int64) []indexer.Point {
	rng := rand.New(rand.NewSource(seed))
	out := make([]indexer.Point, n)
	for i := range out {
		p := make(indexer.Point, dim)
		for j := range p {
			p[j] = rng.Float64()*2 - 1
		}
		out[i] = p
	}
	return out
}

// Items 为每个点分配 id，得到可直接交给 indexer.Build 的叶子
func Items(points []indexer.Point) []*indexer.Leaf {
	out := make([]*indexer.Leaf, len(points))
	for i, p := range points {
		out[i] = &indexer.Leaf{ID: fmt.Sprintf("v%07d", i), Point: p}
	}
	return out
}

// Clustered 生成围绕 clusters 个中心的高斯簇，更接近真实数据的分布
func Clustered(n, dim, clusters int, spread float64, seed int64) []indexer.Point {
	rng := rand.New(rand.NewSource(seed))
	centers := RandomPoints(clusters, dim, seed+1)
	out := make([]indexer.Point, n)
	for i := range out {
		c := centers[rng.Intn(clusters)]
		p := make(indexer.Point, dim)
		for j := range p {
			p[j] = c[j] + rng.NormFloat64()*spread
		}
		out[i] = p
	}
	return out
}
