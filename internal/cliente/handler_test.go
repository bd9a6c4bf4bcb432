package cliente

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafegoporcents/api-gestao/internal/auth"
	"github.com/trafegoporcents/api-gestao/internal/comissao"
	"github.com/trafegoporcents/api-gestao/internal/prazo"
	"github.com/trafegoporcents/api-gestao/internal/statuscampanha"
	"github.com/trafegoporcents/api-gestao/internal/testutil"
	"github.com/trafegoporcents/api-gestao/internal/usuario"
)

func caminho(id uint, sufixo string) string {
	return "/clientes/" + strconv.Itoa(int(id)) + sufixo
}

func TestCriarCliente(t *testing.T) {
	a := novoAmbiente(t)

	t.Run("admin cria com status padrão", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "Loja A", EmailCliente: " LojaA@Cliente.com ", EmailGestor: testutil.Gestor.Email,
			DataVenda: "2024-01-08",
		})
		testutil.Status(t, http.StatusCreated, rr)

		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, "lojaa@cliente.com", out.EmailCliente)
		assert.Equal(t, statuscampanha.PreenchimentoFormulario, out.StatusCampanha)
		assert.Equal(t, prazo.SituacaoAtrasado, out.Prazo.Situacao)
		assert.Equal(t, 1, out.Prazo.Dias)
		assert.Equal(t, 1, out.Progresso.Etapa)
		assert.Contains(t, a.cache.alterados, out.ID)
	})

	t.Run("email duplicado", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "Outra", EmailCliente: "lojaa@cliente.com",
		})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("validação na entrada", func(t *testing.T) {
		casos := map[string]ClienteInput{
			"status desconhecido": {NomeCliente: "X", EmailCliente: "x@x.com", StatusCampanha: "Entregue"},
			"data inválida":       {NomeCliente: "X", EmailCliente: "x@x.com", DataVenda: "30/01/2024"},
			"nome vazio":          {NomeCliente: "  ", EmailCliente: "x@x.com"},
			"email vazio":         {NomeCliente: "X"},
		}
		for nome, in := range casos {
			t.Run(nome, func(t *testing.T) {
				rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/clientes", in)
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			})
		}
	})

	t.Run("gestor cria apenas para si", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "Loja G", EmailCliente: "g@cliente.com",
		})
		testutil.Status(t, http.StatusCreated, rr)
		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, testutil.Gestor.Email, out.EmailGestor)

		rr = testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "Loja H", EmailCliente: "h@cliente.com", EmailGestor: "outro@trafegoporcents.com",
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("vendedor não usa a rota", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Vendedor, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "V", EmailCliente: "v@cliente.com",
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestCriarClienteFalhaNoBanco(t *testing.T) {
	a := novoAmbiente(t)
	sqlDB, err := a.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/clientes", ClienteInput{
		NomeCliente: "Loja", EmailCliente: "loja@c.com",
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, a.cache.alterados)
}

func TestAvaliarCreatedAtIndependeDoFuso(t *testing.T) {
	brt := time.FixedZone("BRT", -3*3600)
	local := Cliente{StatusCampanha: statuscampanha.Brief, CreatedAt: time.Date(2024, 1, 8, 22, 30, 0, 0, brt)}
	utc := Cliente{StatusCampanha: statuscampanha.Brief, CreatedAt: time.Date(2024, 1, 9, 1, 30, 0, 0, time.UTC)}

	a, b := local.Avaliar(agoraTeste), utc.Avaliar(agoraTeste)
	require.NotNil(t, a.DataLimite)
	require.NotNil(t, b.DataLimite)
	assert.Equal(t, *b.DataLimite, *a.DataLimite)
	assert.Equal(t, b.Situacao, a.Situacao)
}

func TestListarEBuscar(t *testing.T) {
	a := novoAmbiente(t)
	meu := a.criar(t, Cliente{NomeCliente: "Meu", EmailCliente: "meu@c.com", EmailGestor: testutil.Gestor.Email})
	outro := a.criar(t, Cliente{NomeCliente: "Outro", EmailCliente: "outro@c.com", EmailGestor: "x@trafegoporcents.com"})

	t.Run("gestor vê só os seus", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodGet, "/clientes", nil)
		testutil.Status(t, http.StatusOK, rr)
		var out []ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		require.Len(t, out, 1)
		assert.Equal(t, meu.ID, out[0].ID)
	})

	t.Run("admin filtra por gestor", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, "/clientes?gestor=x@trafegoporcents.com", nil)
		var out []ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		require.Len(t, out, 1)
		assert.Equal(t, outro.ID, out[0].ID)
	})

	t.Run("filtro de status inválido", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, "/clientes?status=qualquer", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("cliente vê o próprio registro", func(t *testing.T) {
		cli := testutil.Cliente("meu@c.com")
		rr := testutil.Requisicao(t, a.router, &cli, http.MethodGet, caminho(meu.ID, ""), nil)
		testutil.Status(t, http.StatusOK, rr)

		rr = testutil.Requisicao(t, a.router, &cli, http.MethodGet, caminho(outro.ID, ""), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("leitura passa pelo cache", func(t *testing.T) {
		antes := a.cache.hits
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, caminho(meu.ID, ""), nil)
		testutil.Status(t, http.StatusOK, rr)
		assert.Greater(t, a.cache.hits, antes)

		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, "Meu", out.NomeCliente)
		assert.Equal(t, prazo.SituacaoNoPrazo, out.Prazo.Situacao, "sem data de venda o prazo parte do created_at")
	})

	t.Run("inexistente", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, "/clientes/9999", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAtualizarERemover(t *testing.T) {
	a := novoAmbiente(t)
	c := a.criar(t, Cliente{NomeCliente: "Loja", EmailCliente: "loja@c.com", EmailGestor: testutil.Gestor.Email})

	rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPut, caminho(c.ID, ""), ClienteInput{
		NomeCliente: "Loja Nova", EmailCliente: "loja@c.com", StatusCampanha: statuscampanha.Site,
		EmailGestor: "tentativa@trafegoporcents.com", LinkSite: "https://loja.com",
	})
	testutil.Status(t, http.StatusOK, rr)
	var out ClienteDetalhado
	testutil.Decodificar(t, rr, &out)
	assert.Equal(t, "Loja Nova", out.NomeCliente)
	assert.Equal(t, testutil.Gestor.Email, out.EmailGestor, "gestor não transfere o cliente")

	rr = testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodDelete, caminho(c.ID, ""), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodDelete, caminho(c.ID, ""), nil)
	testutil.Status(t, http.StatusNoContent, rr)
	rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodDelete, caminho(c.ID, ""), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestComissaoNoCadastro(t *testing.T) {
	a := novoAmbiente(t)
	c := a.criar(t, Cliente{NomeCliente: "Loja", EmailCliente: "loja@c.com", EmailGestor: testutil.Gestor.Email})
	valor := func(v float64) *float64 { return &v }

	t.Run("gestor não define comissão pelo PUT", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPut, caminho(c.ID, ""), ClienteInput{
			NomeCliente: "Loja", EmailCliente: "loja@c.com", ValorComissao: valor(999999),
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPut, caminho(c.ID, ""), ClienteInput{
			NomeCliente: "Loja", EmailCliente: "loja@c.com", ValorVendaInicial: valor(500),
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)

		salvo, err := NewRepository(a.db).FindByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, comissao.ValorPadrao, salvo.ValorComissao)
		assert.Nil(t, salvo.ValorVendaInicial)
	})

	t.Run("admin respeita a faixa manual", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPut, caminho(c.ID, ""), ClienteInput{
			NomeCliente: "Loja", EmailCliente: "loja@c.com", EmailGestor: testutil.Gestor.Email, ValorComissao: valor(1000.01),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "Outra", EmailCliente: "outra@c.com", ValorComissao: valor(-5),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/clientes", ClienteInput{
			NomeCliente: "Outra", EmailCliente: "outra@c.com", ValorVendaInicial: valor(0),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPut, caminho(c.ID, ""), ClienteInput{
			NomeCliente: "Loja", EmailCliente: "loja@c.com", EmailGestor: testutil.Gestor.Email,
			ValorComissao: valor(120), ValorVendaInicial: valor(1500),
		})
		testutil.Status(t, http.StatusOK, rr)
		salvo, err := NewRepository(a.db).FindByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, 120.0, salvo.ValorComissao)
		require.NotNil(t, salvo.ValorVendaInicial)
		assert.Equal(t, 1500.0, *salvo.ValorVendaInicial)
	})

	t.Run("PUT sem os campos mantém os valores", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPut, caminho(c.ID, ""), ClienteInput{
			NomeCliente: "Loja", EmailCliente: "loja@c.com",
		})
		testutil.Status(t, http.StatusOK, rr)
		salvo, err := NewRepository(a.db).FindByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, 120.0, salvo.ValorComissao)
		require.NotNil(t, salvo.ValorVendaInicial)
	})
}

func TestAtualizarStatus(t *testing.T) {
	a := novoAmbiente(t)
	c := a.criar(t, Cliente{NomeCliente: "Loja", EmailCliente: "loja@c.com", DataVenda: data("2024-01-08")})

	// aquece o cache
	testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, caminho(c.ID, ""), nil)
	_, emCache := a.cache.dados[c.ID]
	require.True(t, emCache)

	t.Run("status inválido", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/status"),
			StatusInput{StatusCampanha: "no ar"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("qualquer status pode ir para qualquer outro", func(t *testing.T) {
		for _, s := range []string{statuscampanha.Otimizacao, statuscampanha.PreenchimentoFormulario, statuscampanha.NoAr} {
			rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/status"),
				StatusInput{StatusCampanha: s})
			testutil.Status(t, http.StatusOK, rr)
		}
		_, emCache := a.cache.dados[c.ID]
		assert.False(t, emCache, "alteração invalida o cache")

		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, caminho(c.ID, ""), nil)
		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, prazo.SituacaoCumprido, out.Prazo.Situacao)
	})

	t.Run("problema guarda a descrição", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/status"),
			StatusInput{StatusCampanha: statuscampanha.Problema, DescricaoProblema: "BM bloqueada"})
		testutil.Status(t, http.StatusOK, rr)
		salvo, err := NewRepository(a.db).FindByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, "BM bloqueada", salvo.DescricaoProblema)
	})
}

func TestAtrasados(t *testing.T) {
	a := novoAmbiente(t)
	atrasado := a.criar(t, Cliente{NomeCliente: "Atrasado", EmailCliente: "a@c.com", EmailGestor: testutil.Gestor.Email, DataVenda: data("2024-01-08")})
	a.criar(t, Cliente{NomeCliente: "Entregue", EmailCliente: "b@c.com", EmailGestor: testutil.Gestor.Email, DataVenda: data("2024-01-02"), StatusCampanha: statuscampanha.NoAr})
	a.criar(t, Cliente{NomeCliente: "Ultimo dia", EmailCliente: "c@c.com", EmailGestor: testutil.Gestor.Email, DataVenda: data("2024-01-09")})

	rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodGet, "/clientes/atrasados", nil)
	testutil.Status(t, http.StatusOK, rr)
	var out []ClienteDetalhado
	testutil.Decodificar(t, rr, &out)
	require.Len(t, out, 1)
	assert.Equal(t, atrasado.ID, out[0].ID)
	assert.Equal(t, 1, out[0].Prazo.Dias)

	t.Run("notificação envia a lista ao webhook", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/notificacoes/atrasos", nil)
		testutil.Status(t, http.StatusOK, rr)
		require.Len(t, a.alertas.enviados, 1)
		assert.Equal(t, "atrasos", a.alertas.enviados[0].Tipo)
	})

	t.Run("falha no webhook", func(t *testing.T) {
		a.alertas.err = errors.New("fora do ar")
		defer func() { a.alertas.err = nil }()
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/notificacoes/atrasos", nil)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestVendaClienteNovo(t *testing.T) {
	a := novoAmbiente(t)

	rr := testutil.Requisicao(t, a.router, &testutil.Vendedor, http.MethodPost, "/vendas/cliente-novo", ClienteNovoInput{
		NomeCliente: "Padaria", EmailCliente: "Padaria@Cliente.com", EmailGestor: testutil.Gestor.Email, ValorVenda: 500,
	})
	testutil.Status(t, http.StatusCreated, rr)

	var out ClienteNovoResposta
	testutil.Decodificar(t, rr, &out)
	assert.Equal(t, 40.0, out.ComissaoVendedor)
	assert.Equal(t, 100.0, out.ComissaoGestor)
	assert.Equal(t, 100.0, out.Cliente.ValorComissao)
	assert.Equal(t, comissao.StatusAPagar, out.Cliente.Comissao)
	assert.Equal(t, statuscampanha.ClienteNovo, out.Cliente.StatusCampanha)
	assert.Equal(t, OrigemVendedor, out.Cliente.OrigemCadastro)
	assert.Equal(t, testutil.Vendedor.Email, out.Cliente.Vendedor)
	require.NotNil(t, out.Cliente.DataVenda)
	assert.Equal(t, "2024-01-30", out.Cliente.DataVenda.Format("2006-01-02"))
	assert.Equal(t, prazo.SituacaoNoPrazo, out.Cliente.Prazo.Situacao)
	assert.Equal(t, 15, out.Cliente.Prazo.Dias)
	assert.True(t, out.UsuarioCriado)
	assert.Len(t, out.SenhaTemporaria, 12)

	u, err := usuario.NewRepository().FindByEmail(a.db, "padaria@cliente.com")
	require.NoError(t, err)
	assert.Equal(t, auth.PapelCliente, u.Papel)

	t.Run("faixa de 350", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/vendas/cliente-novo", ClienteNovoInput{
			NomeCliente: "Bar", EmailCliente: "bar@cliente.com", ValorVenda: 350,
		})
		testutil.Status(t, http.StatusCreated, rr)
		var out ClienteNovoResposta
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, 30.0, out.ComissaoVendedor)
		assert.Equal(t, 80.0, out.Cliente.ValorComissao)
	})

	t.Run("valor fora da tabela", func(t *testing.T) {
		for _, v := range []float64{0, 400, 499.99} {
			rr := testutil.Requisicao(t, a.router, &testutil.Vendedor, http.MethodPost, "/vendas/cliente-novo", ClienteNovoInput{
				NomeCliente: "X", EmailCliente: "x@cliente.com", ValorVenda: v,
			})
			assert.Equal(t, http.StatusBadRequest, rr.Code, "%v", v)
		}
	})

	t.Run("email duplicado alerta e não cria", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Vendedor, http.MethodPost, "/vendas/cliente-novo", ClienteNovoInput{
			NomeCliente: "Padaria 2", EmailCliente: "padaria@cliente.com", ValorVenda: 350,
		})
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, []string{"padaria@cliente.com"}, a.alertas.duplicados)

		list, err := NewRepository(a.db).List(Filtro{})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("gestor não vende", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPost, "/vendas/cliente-novo", ClienteNovoInput{
			NomeCliente: "Y", EmailCliente: "y@cliente.com", ValorVenda: 500,
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEdicaoDeComissao(t *testing.T) {
	a := novoAmbiente(t)
	venda := 1000.0
	c := a.criar(t, Cliente{NomeCliente: "Loja", EmailCliente: "loja@c.com", ValorVendaInicial: &venda})

	t.Run("valor manual", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/comissao/valor"),
			ComissaoValorInput{ValorComissao: 9.99})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/comissao/valor"),
			ComissaoValorInput{ValorComissao: 150})
		testutil.Status(t, http.StatusOK, rr)
		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, 150.0, out.ValorComissao)

		rr = testutil.Requisicao(t, a.router, &testutil.Gestor, http.MethodPatch, caminho(c.ID, "/comissao/valor"),
			ComissaoValorInput{ValorComissao: 150})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("percentual confirmado pelo cliente", func(t *testing.T) {
		proprio := testutil.Cliente("loja@c.com")
		rr := testutil.Requisicao(t, a.router, &proprio, http.MethodPatch, caminho(c.ID, "/comissao/percentual"),
			ComissaoPercentualInput{Percentual: 12.5})
		testutil.Status(t, http.StatusOK, rr)
		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.Equal(t, 125.0, out.ValorComissao)
		require.NotNil(t, out.ComissaoPercentual)
		assert.Equal(t, 12.5, *out.ComissaoPercentual)

		rr = testutil.Requisicao(t, a.router, &proprio, http.MethodPatch, caminho(c.ID, "/comissao/percentual"),
			ComissaoPercentualInput{Percentual: 51})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		estranho := testutil.Cliente("outra@c.com")
		rr = testutil.Requisicao(t, a.router, &estranho, http.MethodPatch, caminho(c.ID, "/comissao/percentual"),
			ComissaoPercentualInput{Percentual: 10})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("pago não é rebaixado", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/comissao/status"),
			ComissaoStatusInput{Comissao: "pago"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/comissao/status"),
			ComissaoStatusInput{Comissao: comissao.StatusPago})
		testutil.Status(t, http.StatusOK, rr)
		var out ClienteDetalhado
		testutil.Decodificar(t, rr, &out)
		assert.True(t, out.ComissaoPaga)

		rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPatch, caminho(c.ID, "/comissao/status"),
			ComissaoStatusInput{Comissao: comissao.StatusPendente})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestSimularComissao(t *testing.T) {
	a := novoAmbiente(t)
	pct := func(v float64) *float64 { return &v }

	casos := []struct {
		nome     string
		in       SimulacaoInput
		status   int
		comissao float64
	}{
		{"tabela fixa", SimulacaoInput{ValorVenda: 500}, http.StatusOK, 100},
		{"tabela fixa fora da faixa", SimulacaoInput{ValorVenda: 420}, http.StatusBadRequest, 0},
		{"cliente", SimulacaoInput{ValorVenda: 1234.56, Percentual: pct(7.5)}, http.StatusOK, 92.59},
		{"cliente acima de 50", SimulacaoInput{ValorVenda: 1000, Percentual: pct(60)}, http.StatusBadRequest, 0},
		{"parceria aceita 60", SimulacaoInput{ValorVenda: 1000, Percentual: pct(60), Fluxo: FluxoParceria}, http.StatusOK, 600},
		{"parceria abaixo de 1", SimulacaoInput{ValorVenda: 1000, Percentual: pct(0.5), Fluxo: FluxoParceria}, http.StatusBadRequest, 0},
		{"fluxo desconhecido", SimulacaoInput{ValorVenda: 1000, Percentual: pct(10), Fluxo: "outro"}, http.StatusBadRequest, 0},
	}
	for _, tc := range casos {
		t.Run(tc.nome, func(t *testing.T) {
			rr := testutil.Requisicao(t, a.router, &testutil.Vendedor, http.MethodPost, "/comissoes/simular", tc.in)
			testutil.Status(t, tc.status, rr)
			if tc.status == http.StatusOK {
				var out SimulacaoResposta
				testutil.Decodificar(t, rr, &out)
				assert.Equal(t, tc.comissao, out.Comissao)
			}
		})
	}
}

func TestRecuperarOrfaos(t *testing.T) {
	a := novoAmbiente(t)
	for _, email := range []string{"orfao@c.com", "interno@trafegoporcents.com", "existe@c.com"} {
		_, _, err := usuario.CriarCliente(a.db, "Nome "+email, email, "")
		require.NoError(t, err)
	}
	a.criar(t, Cliente{NomeCliente: "Existe", EmailCliente: "EXISTE@c.com"})

	rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/admin/clientes/orfaos", nil)
	testutil.Status(t, http.StatusOK, rr)
	var out OrfaosResposta
	testutil.Decodificar(t, rr, &out)
	assert.Equal(t, 1, out.Recuperados)
	assert.Equal(t, []string{"orfao@c.com"}, out.Emails)

	c, err := NewRepository(a.db).FindByEmail("orfao@c.com")
	require.NoError(t, err)
	assert.Equal(t, statuscampanha.PreenchimentoFormulario, c.StatusCampanha)
	assert.Equal(t, comissao.ValorPadrao, c.ValorComissao)
	assert.Equal(t, SiteStatusPendente, c.SiteStatus)
	assert.Equal(t, OrigemRecuperacao, c.OrigemCadastro)

	rr = testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodPost, "/admin/clientes/orfaos", nil)
	testutil.Decodificar(t, rr, &out)
	assert.Zero(t, out.Recuperados)
}

func TestStreamEventos(t *testing.T) {
	a := novoAmbiente(t)

	t.Run("sem redis", func(t *testing.T) {
		rr := testutil.Requisicao(t, a.router, &testutil.Admin, http.MethodGet, "/clientes/eventos", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("repassa os ids publicados", func(t *testing.T) {
		a.handler.Eventos = eventosFake{ids: []uint{7, 9}}
		req := httptest.NewRequest(http.MethodGet, "/clientes/eventos", nil)
		req = req.WithContext(auth.ComIdentidade(context.Background(), testutil.Admin))
		rr := httptest.NewRecorder()
		a.router.ServeHTTP(rr, req)

		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		corpo := rr.Body.String()
		assert.Contains(t, corpo, "data: {\"id\":7}")
		assert.Contains(t, corpo, "data: {\"id\":9}")
		assert.Equal(t, 2, strings.Count(corpo, "event: cliente"))
	})
}
