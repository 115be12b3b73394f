package service

import (
	"math"
	"sort"

	"challengobi/models"
)

// 人口特征 [性别, 出生年份, 职业] 的权重，年龄相近权重最高
var demographicWeights = [3]float64{0.2, 0.5, 0.3}

// 最终得分 = 类别相似度和人口特征相似度各占一半
const (
	categoryBlendWeight    = 0.5
	demographicBlendWeight = 0.5
)

// Recommendation 推荐候选
type Recommendation struct {
	UserID     uint    `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// Recommend 计算与目标用户最相似的 k 个用户
//
// 纯函数：只读传入的用户与偏好快照，无副作用，输入相同则输出相同。
// 目标用户必须同时存在于两份快照中；缺少偏好行的候选用户被跳过。
// 返回按相似度降序（同分按用户 ID 升序）的前 k 名，得分保留 3 位小数。
func Recommend(targetID uint, users []models.User, prefs []models.UserChallengeCategory, k int) ([]Recommendation, error) {
	if k <= 0 {
		k = 10
	}

	prefByUser := make(map[uint][]float64, len(prefs))
	for i := range prefs {
		prefByUser[prefs[i].UserID] = prefs[i].Vector()
	}

	var target *models.User
	for i := range users {
		if users[i].ID == targetID {
			target = &users[i]
			break
		}
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	targetPref, ok := prefByUser[targetID]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	targetDemo := demographicVector(target)

	candidates := make([]Recommendation, 0, len(users))
	for i := range users {
		u := &users[i]
		if u.ID == targetID {
			continue
		}
		pref, ok := prefByUser[u.ID]
		if !ok {
			continue
		}

		catSim := cosineSimilarity(targetPref, pref)
		demoSim := cosineSimilarity(targetDemo, demographicVector(u))
		score := categoryBlendWeight*catSim + demographicBlendWeight*demoSim

		candidates = append(candidates, Recommendation{
			UserID:     u.ID,
			Similarity: math.Round(score*1000) / 1000,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].UserID < candidates[j].UserID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// demographicVector 人口特征向量 [性别, 出生年份, 职业]，逐元素乘以固定权重
func demographicVector(u *models.User) []float64 {
	return []float64{
		u.SexIndicator() * demographicWeights[0],
		float64(u.BirthYear()) * demographicWeights[1],
		float64(u.Career) * demographicWeights[2],
	}
}

// cosineSimilarity 余弦相似度
// 零向量（新用户的偏好可能全为空）没有定义，按 0 处理而不是报错
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
