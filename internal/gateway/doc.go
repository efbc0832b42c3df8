// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 著者・書籍・カテゴリ・認証の各下流サービスを束ね、トークン検証、
// 権限に基づく認可、下流へのリクエスト転送、参照リソースの並行付加、
// 異種のエラーを統一形式へ変換する処理を担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として機能する。
package gateway
