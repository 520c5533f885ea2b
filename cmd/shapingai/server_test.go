package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shapingai/shaping-ai-dashboard/internal/corpus"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/httpserver"
	"github.com/shapingai/shaping-ai-dashboard/internal/socketrpc"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"data/dist_articles.csv": ",date,count\n0,2010-03-01,4\n1,2014-07-01,11\n2,2021-01-01,20\n",
		"data/df_bigrams.csv":    "year,bigram,count\n2014,intelligence artificielle,41\n2014,voiture autonome,7\n2021,reconnaissance faciale,16\n",
		"data/df_journals.csv":   "date,journal_clean\n2014-07-01,Le Monde\n2014-07-02,Le Monde\n2021-01-01,La Croix\n",
		"data/dist_topic.csv":    "year,topic,norm\n2014,0,0.3\n2014,1,0.7\n2021,0,0.6\n2021,1,0.4\n",
		"lda/lda_model.yml":      "components:\n  - [0.5, 0.1, 0.2]\n  - [0.1, 0.2, 0.8]\n",
		"lda/vocab.yml":          "[\"emploi\", \"donnees\", \"robot\"]\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

// TestPipeline wires the corpus, the mirror and both transports the way
// runServer does and checks that HTTP and the socket agree.
func TestPipeline(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dataDir := writeDataDir(t)
	cfg, err := loadConfig(writeConfig(t, "data-dir: "+dataDir+"\ndb-path: \"\"\n"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	c, err := corpus.Load(cfg.corpusPaths())
	if err != nil {
		t.Fatalf("corpus.Load: %v", err)
	}
	store, err := openMirror(cfg, c)
	if err != nil {
		t.Fatalf("openMirror: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := dashboard.NewService(c, store, nil, cfg.dashboardConfig())

	sockPath := filepath.Join(t.TempDir(), "shapingai.sock")
	sock := socketrpc.NewServer(sockPath, svc)
	if err := sock.Start(); err != nil {
		t.Fatalf("socket start: %v", err)
	}
	t.Cleanup(sock.Stop)
	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	api := httptest.NewServer(httpserver.NewServer("", svc, store).Handler())
	t.Cleanup(api.Close)

	resp, err := http.Get(api.URL + "/api/overview")
	if err != nil {
		t.Fatalf("GET overview: %v", err)
	}
	defer resp.Body.Close()
	var overHTTP dashboard.Overview
	if err := json.NewDecoder(resp.Body).Decode(&overHTTP); err != nil {
		t.Fatalf("decode overview: %v", err)
	}

	overSock, err := client.Overview()
	if err != nil {
		t.Fatalf("socket overview: %v", err)
	}

	if overHTTP.Summary.TotalArticles != 35 || overSock.Summary.TotalArticles != 35 {
		t.Errorf("total articles http=%d socket=%d, want 35", overHTTP.Summary.TotalArticles, overSock.Summary.TotalArticles)
	}
	if overSock.Summary.DistinctMedia != 2 || overSock.NumTopics != 2 {
		t.Errorf("socket overview = %+v", overSock.Summary)
	}

	topic, err := client.Topic(2)
	if err != nil {
		t.Fatalf("socket topic: %v", err)
	}
	if got := topic.Keywords.Data.Text(0, topic.Keywords.Data.Col("words")); got != "robot" {
		t.Errorf("topic 2 top keyword = %q, want robot", got)
	}
}
