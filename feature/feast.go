package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
)

// FeastProvider 是基于官方 Feast Go SDK 的 Provider 实现。
//
// 使用场景：
//   - 用户画像特征（活跃度、偏好类目、价格敏感度等）在离线管道产出，
//     物化到 Feast 在线存储，推荐请求时按 user_id 实时拉取
type FeastProvider struct {
	client   *feastsdk.GrpcClient
	project  string
	features []string
}

// NewFeastProvider 创建 Feast 在线特征客户端。
// features 是要拉取的特征全名列表，例如 "user_stats:activity_score"。
func NewFeastProvider(host string, port int, project string, features []string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feature: connect feast failed: %w", err)
	}
	return &FeastProvider{
		client:   client,
		project:  project,
		features: features,
	}, nil
}

var _ Provider = (*FeastProvider)(nil)

// UserFeatures 按 user_id 拉取在线特征。
func (p *FeastProvider) UserFeatures(ctx context.Context, userID string) (map[string]any, error) {
	if len(p.features) == 0 {
		return nil, nil
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: p.features,
		Entities: []feastsdk.Row{{"user_id": feastsdk.StrVal(userID)}},
		Project:  p.project,
	}
	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feature: get online features failed: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(p.features))
	for _, name := range p.features {
		if val, ok := rows[0][name]; ok && val != nil {
			if v := fromFeastValue(val); v != nil {
				out[name] = v
			}
		}
	}
	return out, nil
}

// fromFeastValue 把 Feast 的 protobuf Value 还原成普通 Go 值。
func fromFeastValue(val *feasttypes.Value) any {
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_StringVal:
		return v.StringVal
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val)
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val)
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal)
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal
	case *feasttypes.Value_BoolVal:
		return v.BoolVal
	case *feasttypes.Value_BytesVal:
		return string(v.BytesVal)
	default:
		return nil
	}
}

func (p *FeastProvider) Close() error {
	p.client = nil
	return nil
}
