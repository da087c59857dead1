// Package supervisor builds the supervisord configuration document for a
// vcc deployment. Building and rendering are pure: no file, process or
// network I/O happens here.
package supervisor

import (
	"fmt"
	"strings"

	"github.com/vcc-chat/vcc-installer/internal/models"
)

const (
	rpcHost    = "127.0.0.1:2474"
	minioPort  = 9000
	socketFile = "./supervisor.sock"
)

// ServiceNames are the vcc_rpc worker services managed as one group.
var ServiceNames = []string{"login", "chat", "file", "record"}

// EnvVar is one environment assignment in the supervisord section.
type EnvVar struct {
	Name  string
	Value string
}

// Program describes one managed process.
type Program struct {
	Name           string
	Command        string
	Priority       int
	StartSecs      int
	StartRetries   int
	AutoRestart    bool
	RedirectStderr bool
	StdoutLogfile  string
}

// Group bundles programs that are started and stopped together.
type Group struct {
	Name     string
	Programs []string
	Priority int
}

// Document is the full supervisord configuration, assembled from typed
// records and rendered by a single serializer.
type Document struct {
	SocketFile  string
	Environment []EnvVar
	Groups      []Group
	Programs    []Program
}

// Build assembles the configuration document from the collected session and
// object-storage values. The minio program section is included only when
// this installer provisioned the binary itself.
func Build(session models.Session, minio models.MinioConfig) Document {
	doc := Document{
		SocketFile: socketFile,
		Environment: []EnvVar{
			{Name: "RPCHOST", Value: rpcHost},
			{Name: "MINIO_ROOT_USER", Value: minio.Username},
			{Name: "MINIO_ROOT_PASSWORD", Value: minio.Password},
			{Name: "MINIO_URL", Value: fmt.Sprintf("%s:%d", minio.Hostname, minioPort)},
			{Name: "MINIO_ACCESS", Value: minio.Username},
			{Name: "MINIO_SECRET", Value: minio.Password},
		},
		Groups: []Group{
			{Name: "services", Programs: ServiceNames, Priority: 20},
			{Name: "gateways", Programs: []string{"web"}, Priority: 20},
		},
	}

	doc.Programs = append(doc.Programs, Program{
		Name:           "vcc_rpc",
		Command:        session.Python + " ./vcc_rpc/server/main.py",
		Priority:       10,
		StartRetries:   3,
		AutoRestart:    true,
		RedirectStderr: true,
		StdoutLogfile:  "./log/%(program_name)s.log",
	})

	for _, name := range ServiceNames {
		doc.Programs = append(doc.Programs, Program{
			Name:           name,
			Command:        fmt.Sprintf("%s ./vcc_rpc/services/%s.py", session.Python, name),
			StartSecs:      5,
			StartRetries:   3,
			AutoRestart:    true,
			RedirectStderr: true,
			StdoutLogfile:  "./log/service_%(program_name)s.log",
		})
	}

	doc.Programs = append(doc.Programs, Program{
		Name:           "web",
		Command:        session.Python + " ./web-vcc/backend/main.py",
		StartSecs:      5,
		StartRetries:   3,
		AutoRestart:    true,
		RedirectStderr: true,
		StdoutLogfile:  "./log/gateway_%(program_name)s.log",
	})

	if !minio.AlreadyInstalled {
		doc.Programs = append(doc.Programs, Program{
			Name:           "minio",
			Command:        "./minio server ./data",
			Priority:       10,
			StartRetries:   3,
			AutoRestart:    true,
			RedirectStderr: true,
			StdoutLogfile:  "./log/%(program_name)s.log",
		})
	}

	return doc
}

// Render serializes the document to supervisord configuration text.
func (d Document) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[unix_http_server]\nfile=%s\n\n", d.SocketFile)

	b.WriteString("[supervisord]\nenvironment=")
	for i, e := range d.Environment {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=\"%s\"", e.Name, escapeEnvValue(e.Value))
	}
	b.WriteString("\ndirectory=%(here)s\n\n")

	b.WriteString("[rpcinterface:supervisor]\nsupervisor.rpcinterface_factory=supervisor.rpcinterface:make_main_rpcinterface\n\n")

	fmt.Fprintf(&b, "[supervisorctl]\nserverurl=unix://%s\n\n", d.SocketFile)

	for _, g := range d.Groups {
		fmt.Fprintf(&b, "[group:%s]\nprograms=%s\n", g.Name, strings.Join(g.Programs, ","))
		if g.Priority > 0 {
			fmt.Fprintf(&b, "priority=%d\n", g.Priority)
		}
		b.WriteByte('\n')
	}

	for _, p := range d.Programs {
		p.render(&b)
	}

	return b.String()
}

func (p Program) render(b *strings.Builder) {
	fmt.Fprintf(b, "[program:%s]\n", p.Name)
	if p.StartSecs > 0 {
		fmt.Fprintf(b, "startsecs=%d\n", p.StartSecs)
	}
	fmt.Fprintf(b, "command=%s\n", p.Command)
	if p.AutoRestart {
		b.WriteString("autorestart=true\n")
	}
	if p.Priority > 0 {
		fmt.Fprintf(b, "priority=%d\n", p.Priority)
	}
	fmt.Fprintf(b, "startretries=%d\n", p.StartRetries)
	if p.RedirectStderr {
		b.WriteString("redirect_stderr=true\n")
	}
	fmt.Fprintf(b, "stdout_logfile=%s\n\n", p.StdoutLogfile)
}

// escapeEnvValue makes a value safe inside supervisord's quoted environment
// list: literal % would otherwise start a string expression, and a raw quote
// would end the value early.
func escapeEnvValue(v string) string {
	v = strings.ReplaceAll(v, "%", "%%")
	v = strings.ReplaceAll(v, `"`, `\"`)
	return v
}
