/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package diagnostics serves a small read-only JSON view of a running UAM
// controller: its lifecycle state and queue depth. It carries none of the
// scheduler webservice's UI or admin routes, only the equivalent of its
// state-dump endpoint, adapted to httprouter (the routing library the
// original repo tests against, rather than the gorilla/mux its own
// webservice.go drifted to).
package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/apache/hadoop-yarn-uam-client/pkg/log"
)

// StateProvider is implemented by the UAM controller. Kept minimal and
// read-only so the diagnostics server can never be used to mutate the
// controller it is reporting on.
type StateProvider interface {
	AttemptID() string
	State() string
	PendingRequestCount() int
	LastResponseID() int32
}

type Server struct {
	httpServer *http.Server
	provider   StateProvider
	addr       string
}

func NewServer(addr string, provider StateProvider) *Server {
	return &Server{addr: addr, provider: provider}
}

func (s *Server) newRouter() *httprouter.Router {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/ws/v1/uam/state", loggingHandler(http.HandlerFunc(s.handleState), "uamState"))
	router.Handler(http.MethodGet, "/metrics", loggingHandler(promHandler(), "metrics"))
	return router
}

func (s *Server) Start() {
	router := s.newRouter()
	s.httpServer = &http.Server{Addr: s.addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	log.Logger().Info("diagnostics server started", zap.String("addr", s.addr))
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger().Error("diagnostics HTTP serving error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

type stateDAO struct {
	AttemptID      string `json:"attemptId"`
	State          string `json:"state"`
	PendingCount   int    `json:"pendingRequestCount"`
	LastResponseID int32  `json:"lastResponseId"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	dao := stateDAO{
		AttemptID:      s.provider.AttemptID(),
		State:          s.provider.State(),
		PendingCount:   s.provider.PendingRequestCount(),
		LastResponseID: s.provider.LastResponseID(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dao); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func loggingHandler(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inner.ServeHTTP(w, r)
		log.Logger().Debug(fmt.Sprintf("%s\t%s\t%s\t%s",
			r.Method, r.RequestURI, name, time.Since(start)))
	})
}
