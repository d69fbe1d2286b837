package config

// DefaultConfigYAML 内置默认配置
// 未提供外部配置文件时按此运行，可被外部文件或 BUDGETOWN_ 环境变量覆盖
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "budgetown"
  password: "budgetown"
  dbname: "budgetown"
  charset: "utf8mb4"

jwt:
  secret: "budgetown-dev-secret-change-me"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 465
  username: ""
  password: ""
  from: ""

telegram:
  enabled: false
  bot_token: ""
  api_base: ""

gemini:
  enabled: false
  api_key: ""
  model: "gemini-1.5-flash"
`)
