// BMS API Gatewayサービスのエントリポイント。
// トークン検証、権限に基づく認可、下流サービスへのルーティング、
// 参照リソースの付加を担当する。外部からアクセス可能な唯一のサービスであり、
// セキュリティの境界線となる。
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nao1215/bms-gateway/internal/gateway"
)

func main() {
	// ローカル開発用に.envがあれば読み込む。無ければ環境変数をそのまま使う。
	if err := godotenv.Load(); err != nil {
		log.Printf(".envファイルは読み込まれませんでした: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	server, err := gateway.NewServer(port)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
