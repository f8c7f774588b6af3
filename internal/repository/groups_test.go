package repository_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"m365-admin-service/internal/domain"
)

func TestGroupRepository_FindGroupByName(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "displayName eq 'Estudiantes Curso - 101'", r.URL.Query().Get("$filter"))
		writeJSON(w, http.StatusOK, `{"value":[{"id":"g-101","displayName":"Estudiantes Curso - 101"}]}`)
	})

	group, err := f.groups.FindGroupByName(context.Background(), "Estudiantes Curso - 101")

	assert.NoError(t, err)
	assert.Equal(t, "g-101", group.ID)
}

func TestGroupRepository_FindGroupByName_QuotesApostrophe(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "displayName eq 'Equipo O''Brien'", r.URL.Query().Get("$filter"))
		writeJSON(w, http.StatusOK, `{"value":[{"id":"g-ob","displayName":"Equipo O'Brien"}]}`)
	})

	group, err := f.groups.FindGroupByName(context.Background(), "Equipo O'Brien")

	assert.NoError(t, err)
	assert.Equal(t, "g-ob", group.ID)
}

func TestGroupRepository_FindGroupByName_NotFound(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"value":[]}`)
	})

	_, err := f.groups.FindGroupByName(context.Background(), "No Existe")

	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestGroupRepository_FindGroupByName_FirstMatchWins(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"value":[{"id":"g-first"},{"id":"g-second"}]}`)
	})

	group, err := f.groups.FindGroupByName(context.Background(), "Duplicada")

	assert.NoError(t, err)
	assert.Equal(t, "g-first", group.ID)
}

func TestGroupRepository_ListAllGroups_Paged(t *testing.T) {
	f := newFixture(t)

	f.mux.HandleFunc("/v1.0/groups", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, `{"value":[{"id":"g-3","displayName":"Tercera"}]}`)
			return
		}
		assert.Equal(t, "999", r.URL.Query().Get("$top"))
		writeJSON(w, http.StatusOK, `{"value":[
			{"id":"g-1","displayName":"Primera"},
			{"id":"g-2","displayName":"Segunda"}
		],"@odata.nextLink":"`+f.baseURL+`/v1.0/groups?page=2"}`)
	})

	var names []string
	err := f.groups.ListAllGroups(context.Background(), func(g domain.Group) error {
		names = append(names, g.DisplayName)
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"Primera", "Segunda", "Tercera"}, names)
}

func TestGroupRepository_AddMember(t *testing.T) {
	f := newFixture(t)

	var body map[string]string
	f.mux.HandleFunc("/v1.0/groups/g-101/members/$ref", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusNoContent, ``)
	})

	err := f.groups.AddMember(context.Background(), "g-101", "uid-1")

	assert.NoError(t, err)
	assert.Contains(t, body["@odata.id"], "/v1.0/directoryObjects/uid-1")
}

func TestGroupRepository_AddMember_AlreadyMember(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups/g-101/members/$ref", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":{"code":"Request_BadRequest","message":"One or more added object references already exist"}}`)
	})

	err := f.groups.AddMember(context.Background(), "g-101", "uid-1")

	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestGroupRepository_RemoveMember_AbsentIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups/g-101/members/uid-1/$ref", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusNotFound, `{"error":{"code":"Request_ResourceNotFound","message":"not found"}}`)
	})

	err := f.groups.RemoveMember(context.Background(), "g-101", "uid-1")

	assert.NoError(t, err)
}

func TestGroupRepository_ListTeams(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "resourceProvisioningOptions/Any(x:x eq 'Team')", r.URL.Query().Get("$filter"))
		writeJSON(w, http.StatusOK, `{"value":[{"id":"t-1","displayName":"Equipo Uno","mail":"uno@colegio.edu.co"}]}`)
	})

	teams, err := f.groups.ListTeams(context.Background())

	assert.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, "uno@colegio.edu.co", teams[0].Mail)
}

func TestGroupRepository_DeleteGroup_NotFound(t *testing.T) {
	f := newFixture(t)
	f.mux.HandleFunc("/v1.0/groups/g-missing", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":{"code":"Request_ResourceNotFound","message":"not found"}}`)
	})

	err := f.groups.DeleteGroup(context.Background(), "g-missing")

	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}
