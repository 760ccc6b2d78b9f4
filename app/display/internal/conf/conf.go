package conf

type Bootstrap struct {
	Server *Server
	App    *App
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// App 搜索引擎配置，Config 指向 search_upp 的 yaml 配置文件
type App struct {
	Config    string `json:"config"`
	Workspace string `json:"workspace"`
	EnvFile   string `json:"env_file"`
	Theme     string `json:"theme"`
}
