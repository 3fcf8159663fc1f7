package domain

import "context"

// Sink 是向目标表格服务写入记录的窄接口。
//
// 约束：
// - 核心流水线不感知目标字段 ID、upsert 语义与批量上限
// - 每条 Record 自包含、可独立写入（以 SubjectID 为业务主键）
type Sink interface {
	Write(ctx context.Context, r Record) error
}
