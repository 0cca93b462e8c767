package handler

import (
	"fmt"
	"html/template"
)

const pageCSS = `
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 0;
       background: #f5f6f8; color: #111; }
.shell { max-width: 720px; margin: 48px auto; padding: 0 16px; }
.card { background: #fff; border: 1px solid #e5e7eb; border-radius: 12px; padding: 24px; margin-bottom: 16px; }
.title { font-size: 20px; font-weight: 600; }
.subtitle { color: #6b7280; font-size: 13px; margin-top: 2px; }
.alert { background: #fef2f2; color: #b91c1c; border: 1px solid #fecaca; border-radius: 8px;
         padding: 10px 12px; margin: 12px 0; font-size: 14px; }
.label { display: block; font-size: 13px; color: #374151; margin: 12px 0 4px; }
.input { width: 100%; box-sizing: border-box; padding: 10px; border: 1px solid #d1d5db; border-radius: 8px; }
.btn { padding: 10px 16px; border: 0; border-radius: 8px; background: #111; color: #fff; cursor: pointer; }
.btn:disabled { opacity: .5; cursor: not-allowed; }
.btn.ghost { background: transparent; color: #111; border: 1px solid #d1d5db; }
.row { display: flex; gap: 12px; align-items: center; }
.file-list { list-style: none; padding: 0; margin: 12px 0; }
.file-list li { padding: 8px 10px; border: 1px solid #e5e7eb; border-radius: 8px; margin-bottom: 6px;
                display: flex; justify-content: space-between; font-size: 14px; }
.muted { color: #6b7280; font-size: 12px; }
.topbar { display: flex; justify-content: space-between; align-items: center; margin-bottom: 16px; }
`

const appJS = `
const files = [];
const input = document.getElementById('fileInput');
const list = document.getElementById('fileList');
const mergeBtn = document.getElementById('mergeBtn');
const quality = document.getElementById('quality');
const qualityValue = document.getElementById('qualityValue');
const linearize = document.getElementById('linearize');
const status = document.getElementById('status');

input.addEventListener('change', () => {
  for (const f of input.files) {
    if (files.length >= 10) break;
    files.push(f);
  }
  input.value = '';
  render();
});

quality.addEventListener('input', () => { qualityValue.textContent = quality.value; });

function render() {
  list.innerHTML = '';
  files.forEach((f, i) => {
    const li = document.createElement('li');
    const name = document.createElement('span');
    name.textContent = f.name;
    const rm = document.createElement('button');
    rm.className = 'btn ghost';
    rm.textContent = 'Remove';
    rm.onclick = () => { files.splice(i, 1); render(); };
    li.append(name, rm);
    list.appendChild(li);
  });
  mergeBtn.disabled = files.length === 0;
}

mergeBtn.addEventListener('click', async () => {
  const fd = new FormData();
  for (const f of files) fd.append('files', f);
  fd.append('quality', quality.value);
  if (linearize.checked) fd.append('linearize', '1');
  status.textContent = 'Merging...';
  mergeBtn.disabled = true;
  try {
    const res = await fetch('/api/merge', { method: 'POST', body: fd });
    if (!res.ok) {
      const body = await res.json().catch(() => ({}));
      throw new Error(body.error || ('HTTP ' + res.status));
    }
    const blob = await res.blob();
    const a = document.createElement('a');
    a.href = URL.createObjectURL(blob);
    a.download = 'merged.pdf';
    a.click();
    URL.revokeObjectURL(a.href);
    status.textContent = 'Done.';
  } catch (e) {
    status.textContent = e.message;
  } finally {
    mergeBtn.disabled = files.length === 0;
  }
});
`

func renderLoginPage(errMsg string) string {
	errHTML := ""
	if errMsg != "" {
		errHTML = fmt.Sprintf(`<div class="alert" role="alert">%s</div>`, template.HTMLEscapeString(errMsg))
	}

	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>PDF Tools — Sign in</title>
    <style>%s</style>
  </head>
  <body>
    <main class="shell">
      <section class="card">
        <div class="title">PDF Tools</div>
        <div class="subtitle">Merge PDFs and optimize size</div>
        %s
        <form method="post" action="/login" autocomplete="off">
          <label class="label">Username</label>
          <input class="input" name="username" required />
          <label class="label">Password</label>
          <input class="input" type="password" name="password" required />
          <p><button class="btn" type="submit">Sign in</button></p>
        </form>
        <div class="muted">Credentials are configured server-side.</div>
      </section>
    </main>
  </body>
</html>`, pageCSS, errHTML)
}

func renderAppPage() string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>PDF Tools</title>
    <style>%s</style>
  </head>
  <body>
    <main class="shell">
      <div class="topbar">
        <div>
          <div class="title">PDF Tools</div>
          <div class="subtitle">Merge PDFs in upload order, pick output quality</div>
        </div>
        <form method="post" action="/logout">
          <button class="btn ghost" type="submit">Log out</button>
        </form>
      </div>
      <section class="card">
        <input id="fileInput" type="file" accept="application/pdf,.pdf" multiple />
        <ul id="fileList" class="file-list"></ul>
        <div class="row">
          <label class="label">Quality <span id="qualityValue">80</span>%%</label>
          <input id="quality" type="range" min="10" max="100" value="80" />
          <label class="label"><input id="linearize" type="checkbox" /> Linearize</label>
        </div>
        <p><button id="mergeBtn" class="btn" type="button" disabled>Merge</button></p>
        <div id="status" class="muted">Nothing is stored server-side.</div>
      </section>
    </main>
    <script>%s</script>
  </body>
</html>`, pageCSS, appJS)
}
